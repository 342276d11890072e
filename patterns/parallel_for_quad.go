package patterns

import (
	"github.com/go-foundations/microscheduler"
	"github.com/go-foundations/microscheduler/partition"
	"github.com/go-foundations/microscheduler/ranges"
)

// ForBodyQuad runs once per undivided quad-tree leaf tile.
type ForBodyQuad[T ranges.Integer] func(r ranges.QuadRange[T])

// ParallelForQuad is ParallelFor over a QuadRange: a single split can
// produce up to 3 siblings at once (both axes dividing simultaneously),
// so unlike the 2-way fork-join of ParallelFor the join here has a
// variable child count.
func ParallelForQuad[T ranges.Integer](s *microscheduler.Scheduler, r ranges.QuadRange[T], p partition.Partitioner, body ForBodyQuad[T]) error {
	caller := s.NewCaller()
	defer caller.Close()

	root := caller.AllocateTask(forTaskBodyQuad(r, 0, p, body))
	return caller.SpawnAndWait(root)
}

func forTaskBodyQuad[T ranges.Integer](r ranges.QuadRange[T], depth int, p partition.Partitioner, body ForBodyQuad[T]) microscheduler.Body {
	return func(ctx *microscheduler.TaskContext, self *microscheduler.Task) *microscheduler.Task {
		if split, next := p.ShouldSplit(r, depth, self.IsStolen()); split {
			siblings := r.Split()
			if len(siblings) == 0 {
				body(r)
				return nil
			}
			depth++
			p = next

			c := ctx.NewJoin(self, int32(1+len(siblings)), noopJoin)
			self.RecycleAsChild(c)

			for _, sib := range siblings {
				child := ctx.NewChild(c, forTaskBodyQuad(sib, depth, p, body))
				ctx.Spawn(child)
			}

			return self
		}

		body(r)
		return nil
	}
}
