package partition

// Simple recurses while the range is divisible, ignoring depth and steal
// state entirely. It produces the most leaves and the best load balance,
// at the cost of the most task allocations -- the right default for
// bodies whose per-element cost is unknown or highly variable.
type Simple struct{}

func (s Simple) ShouldSplit(r Divisible, depth int, stolen bool) (bool, Partitioner) {
	return r.IsDivisible(), s
}
