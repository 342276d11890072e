package partition

// Adaptive carries a decaying split budget down each branch of the split
// tree (spec.md §4.6, "the key policy"): a task that was stolen refreshes
// its budget to the full initial value, since a steal is evidence that a
// neighboring worker is idle and more parallelism is worth exposing; a
// task that was not stolen halves it, since the work is being absorbed
// locally and further splitting only adds overhead. Splitting stops once
// the budget reaches zero or the range is no longer divisible.
type Adaptive struct {
	// InitialBudget is the full budget a stolen task refreshes to, and
	// what the root of the split tree starts with. Build it with
	// partition.InitialSplitDepth(splitFactor, workerCount) -- typically
	// one or two levels shallower than Static's MaxDepth, since Adaptive
	// expects to split further on demand.
	InitialBudget int

	budget    int
	hasBudget bool
}

// ShouldSplit computes this task's effective budget (refreshed to
// InitialBudget if stolen, otherwise halved from whatever budget it
// inherited from its parent -- or InitialBudget itself, for the root,
// which has no parent to inherit from) and reports whether that budget
// and the range's own divisibility allow another split. The returned
// Partitioner carries the same effective budget forward, so both
// children of a split inherit the decision this task just made.
func (a Adaptive) ShouldSplit(r Divisible, depth int, stolen bool) (bool, Partitioner) {
	budget := a.InitialBudget
	switch {
	case stolen:
		budget = a.InitialBudget
	case a.hasBudget:
		budget = a.budget / 2
	}

	next := Adaptive{InitialBudget: a.InitialBudget, budget: budget, hasBudget: true}
	return budget > 0 && r.IsDivisible(), next
}
