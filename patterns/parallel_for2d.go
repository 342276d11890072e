package patterns

import (
	"github.com/go-foundations/microscheduler"
	"github.com/go-foundations/microscheduler/partition"
	"github.com/go-foundations/microscheduler/ranges"
)

// ForBody2d runs once per undivided 2D leaf tile.
type ForBody2d[T ranges.Integer] func(r ranges.KdRange2d[T])

// ParallelFor2D is ParallelFor over a KdRange2d: each split picks
// whichever axis is relatively larger, matching blocked_range2d's
// square-ish-leaf heuristic.
func ParallelFor2D[T ranges.Integer](s *microscheduler.Scheduler, r ranges.KdRange2d[T], p partition.Partitioner, splitter ranges.Splitter, body ForBody2d[T]) error {
	caller := s.NewCaller()
	defer caller.Close()

	root := caller.AllocateTask(forTaskBody2d(r, 0, p, splitter, body))
	return caller.SpawnAndWait(root)
}

func forTaskBody2d[T ranges.Integer](r ranges.KdRange2d[T], depth int, p partition.Partitioner, splitter ranges.Splitter, body ForBody2d[T]) microscheduler.Body {
	return func(ctx *microscheduler.TaskContext, self *microscheduler.Task) *microscheduler.Task {
		if split, next := p.ShouldSplit(r, depth, self.IsStolen()); split {
			sibling := r.Split(splitter)
			depth++
			p = next

			c := ctx.NewJoin(self, 2, noopJoin)
			self.RecycleAsChild(c)

			right := ctx.NewChild(c, forTaskBody2d(sibling, depth, p, splitter, body))
			ctx.Spawn(right)

			return self
		}

		body(r)
		return nil
	}
}
