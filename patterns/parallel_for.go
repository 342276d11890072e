// Package patterns implements the parallel algorithms built on top of the
// scheduler's fork-join protocol: parallel-for, parallel-reduce, and
// parallel-wavefront, each parameterized by a partition.Partitioner that
// decides how deep to recurse.
package patterns

import (
	"github.com/go-foundations/microscheduler"
	"github.com/go-foundations/microscheduler/partition"
	"github.com/go-foundations/microscheduler/ranges"
)

// ForBody runs once per undivided leaf chunk.
type ForBody[T ranges.Integer] func(r ranges.Range1d[T])

func noopJoin(*microscheduler.TaskContext, *microscheduler.Task) *microscheduler.Task {
	return nil
}

// ParallelFor recursively splits r per p, running body on each leaf, and
// blocks the calling goroutine (which participates as a worker) until
// every leaf has run.
func ParallelFor[T ranges.Integer](s *microscheduler.Scheduler, r ranges.Range1d[T], p partition.Partitioner, splitter ranges.Splitter, body ForBody[T]) error {
	caller := s.NewCaller()
	defer caller.Close()

	root := caller.AllocateTask(forTaskBody(r, 0, p, splitter, body))
	return caller.SpawnAndWait(root)
}

// forTaskBody implements spec.md §4.7's root-task execute: split (via
// recycle-as-child of a fresh 2-way join so no extra allocation is spent
// on the left half) while the partitioner says to, run body otherwise.
func forTaskBody[T ranges.Integer](r ranges.Range1d[T], depth int, p partition.Partitioner, splitter ranges.Splitter, body ForBody[T]) microscheduler.Body {
	return func(ctx *microscheduler.TaskContext, self *microscheduler.Task) *microscheduler.Task {
		if split, next := p.ShouldSplit(r, depth, self.IsStolen()); split {
			sibling := r.Split(splitter)
			depth++
			p = next // self is recycled, not rebuilt, so its own closure must see the updated budget too

			c := ctx.NewJoin(self, 2, noopJoin)
			self.RecycleAsChild(c)

			right := ctx.NewChild(c, forTaskBody(sibling, depth, p, splitter, body))
			ctx.Spawn(right)

			return self
		}

		body(r)
		return nil
	}
}
