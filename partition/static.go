package partition

// Static splits down to a fixed depth computed once up front -- enough
// leaves to give every worker at least one chunk -- and never splits
// again, regardless of whether a chunk later gets stolen. It minimizes
// task allocation overhead for workloads whose per-element cost is
// uniform, at the cost of load balance if it isn't.
type Static struct {
	// MaxDepth is the depth (inclusive) at which splitting stops. Build
	// it with partition.InitialSplitDepth(splitFactor, workerCount).
	MaxDepth int
}

func (s Static) ShouldSplit(r Divisible, depth int, stolen bool) (bool, Partitioner) {
	return depth < s.MaxDepth && r.IsDivisible(), s
}
