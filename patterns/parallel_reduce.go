package patterns

import (
	"github.com/go-foundations/microscheduler"
	"github.com/go-foundations/microscheduler/partition"
	"github.com/go-foundations/microscheduler/ranges"
)

// ReduceBody folds a leaf range into an accumulated partial result.
type ReduceBody[T ranges.Integer, R any] func(r ranges.Range1d[T], partial R) R

// Combine merges two partial results from sibling sub-ranges.
type Combine[R any] func(left, right R) R

// ParallelReduce is ParallelFor with a combine step: each leaf folds into
// its own partial result, and each split's continuation merges its two
// children's partials once both complete.
func ParallelReduce[T ranges.Integer, R any](
	s *microscheduler.Scheduler,
	r ranges.Range1d[T],
	identity R,
	p partition.Partitioner,
	splitter ranges.Splitter,
	body ReduceBody[T, R],
	combine Combine[R],
) (R, error) {
	caller := s.NewCaller()
	defer caller.Close()

	result := identity
	root := caller.AllocateTask(reduceTaskBody(r, 0, identity, p, splitter, body, combine, &result))
	if err := caller.SpawnAndWait(root); err != nil {
		return identity, err
	}
	return result, nil
}

// reduceTaskBody writes its subtree's folded result into resultPtr. A
// recycled self keeps the same resultPtr across its whole left-spine
// descent, so the final write at the leaf, and every combine on the way
// back up, land in the one slot the parent split is waiting on.
func reduceTaskBody[T ranges.Integer, R any](
	r ranges.Range1d[T],
	depth int,
	identity R,
	p partition.Partitioner,
	splitter ranges.Splitter,
	body ReduceBody[T, R],
	combine Combine[R],
	resultPtr *R,
) microscheduler.Body {
	return func(ctx *microscheduler.TaskContext, self *microscheduler.Task) *microscheduler.Task {
		if split, next := p.ShouldSplit(r, depth, self.IsStolen()); split {
			sibling := r.Split(splitter)
			depth++
			p = next

			rightResult := identity
			onReady := func(*microscheduler.TaskContext, *microscheduler.Task) *microscheduler.Task {
				*resultPtr = combine(*resultPtr, rightResult)
				return nil
			}

			c := ctx.NewJoin(self, 2, onReady)
			self.RecycleAsChild(c)

			right := ctx.NewChild(c, reduceTaskBody(sibling, depth, identity, p, splitter, body, combine, &rightResult))
			ctx.Spawn(right)

			return self
		}

		*resultPtr = body(r, *resultPtr)
		return nil
	}
}
