// Package partition provides the splitting policies patterns use to
// decide how deep to decompose a range before running its body: Simple
// (always split while divisible), Static (split to a fixed depth
// up-front, then never again), and Adaptive (split up-front to a smaller
// depth, then keep splitting only while the range is being stolen).
package partition

// Divisible is the minimal range surface a partitioner needs: whether it
// can still be split. Whether the task was stolen (used by Adaptive to
// detect contention) is passed to ShouldSplit separately.
type Divisible interface {
	IsDivisible() bool
}

// Partitioner decides whether a range, at a given recursion depth, should
// be split again. It returns the Partitioner value both halves of a split
// should carry forward: Simple and Static return themselves unchanged,
// but Adaptive's decaying budget means the child a split produces is not
// always identical to the parent that produced it.
type Partitioner interface {
	// ShouldSplit reports whether a range at the given depth and steal
	// state should be split further, and the Partitioner state children
	// of this split should carry forward.
	ShouldSplit(r Divisible, depth int, stolen bool) (bool, Partitioner)
}

// InitialSplitDepth computes how many levels of the split tree must exist
// before any leaf runs, so that there are at least workerCount leaves
// ready to be stolen (ceil(log_splitFactor(workerCount))).
func InitialSplitDepth(splitFactor, workerCount int) int {
	depth := 0
	leaves := 1
	for leaves < workerCount {
		leaves *= splitFactor
		depth++
	}
	return depth
}
