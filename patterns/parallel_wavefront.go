package patterns

import (
	"github.com/go-foundations/microscheduler"
	"github.com/go-foundations/microscheduler/ranges"
)

// WavefrontBody processes one grid-cell-sized leaf of a wavefront. It may
// read results already written by the leaf to its left and the leaf
// below it.
type WavefrontBody[T ranges.Integer] func(r ranges.KdRange2d[T])

// wavefrontGrid bundles the fixed, per-call state every tile task in one
// ParallelWavefront invocation needs: the dependency grid plus enough of
// the root range to reconstruct any tile's KdRange2d leaf from its
// integer (x, y) coordinate.
type wavefrontGrid[T ranges.Integer] struct {
	originX, originY T
	xMin, yMin       T
	xSom, ySom       T
	grid             *dependencyGrid
	body             WavefrontBody[T]
}

func (g *wavefrontGrid[T]) tileRange(tx, ty int) ranges.KdRange2d[T] {
	x0 := g.originX + T(tx)*g.xMin
	y0 := g.originY + T(ty)*g.yMin
	x := ranges.NewRange1d(x0, x0+g.xMin, g.xMin, g.xSom)
	y := ranges.NewRange1d(y0, y0+g.yMin, g.yMin, g.ySom)
	return ranges.NewKdRange2d(x, y)
}

// ParallelWavefront decomposes r into a grid of minSize-by-minSize leaves
// (r's extent along each axis must divide evenly by its own MinSize --
// a contract violation otherwise, per the wavefront precondition) and
// runs body over each leaf, respecting the dependency that leaf (x, y)
// cannot start until (x-1, y) and (x, y-1) have both finished. It starts
// from the single leaf with no predecessors, (0, 0), and fans out as
// each leaf's completion makes its right and upper neighbors ready.
//
// This port only supports the common case where every leaf is exactly
// one dependency-grid cell (true whenever minSize divides the extent, as
// required); it does not implement the source's split-to-ready loop for
// partitioner-driven leaves coarser than one cell, so ParallelWavefront
// takes no Partitioner argument.
func ParallelWavefront[T ranges.Integer](s *microscheduler.Scheduler, r ranges.KdRange2d[T], body WavefrontBody[T]) error {
	xSize, ySize := r.XRange().Size(), r.YRange().Size()
	xMin, yMin := r.XRange().MinSize(), r.YRange().MinSize()

	if xMin <= 0 || yMin <= 0 || xSize%xMin != 0 || ySize%yMin != 0 {
		microscheduler.Violate("parallel_wavefront", "min_size must evenly divide extent along each axis")
	}

	cols, rows := int(xSize/xMin), int(ySize/yMin)
	if cols == 0 || rows == 0 {
		return nil
	}

	g := &wavefrontGrid[T]{
		originX: r.XRange().Begin(), originY: r.YRange().Begin(),
		xMin: xMin, yMin: yMin,
		xSom: r.XRange().SplitOnMultiplesOf(), ySom: r.YRange().SplitOnMultiplesOf(),
		grid: newDependencyGrid(cols, rows),
		body: body,
	}

	caller := s.NewCaller()
	defer caller.Close()

	root := caller.AllocateTask(wavefrontTileBody(0, 0, g))
	return caller.SpawnAndWait(root)
}

type wavefrontCoord struct{ x, y int }

// wavefrontTileBody runs one tile, then releases its two downstream
// neighbors in the dependency grid. A tile that was the last predecessor
// to finish for a neighbor is responsible for spawning it.
//
// The executing tile is never itself one of the neighbors it just made
// ready, so unlike the fork-join split in ParallelFor it cannot recycle
// itself as one of the new children; instead it delegates its own
// completion to a fresh join over whichever 0, 1, or 2 neighbors it just
// unblocked via SetContinuation. With zero newly-ready neighbors it
// completes normally, which also handles the final tile of the grid.
func wavefrontTileBody[T ranges.Integer](x, y int, g *wavefrontGrid[T]) microscheduler.Body {
	return func(ctx *microscheduler.TaskContext, self *microscheduler.Task) *microscheduler.Task {
		g.body(g.tileRange(x, y))

		var ready []wavefrontCoord
		if g.grid.release(x+1, y) {
			ready = append(ready, wavefrontCoord{x + 1, y})
		}
		if g.grid.release(x, y+1) {
			ready = append(ready, wavefrontCoord{x, y + 1})
		}

		if len(ready) == 0 {
			return nil
		}

		c := ctx.NewJoin(self, int32(len(ready)), noopJoin)
		self.SetContinuation(c)

		var bypass *microscheduler.Task
		for i, t := range ready {
			child := ctx.NewChild(c, wavefrontTileBody(t.x, t.y, g))
			if i == len(ready)-1 {
				bypass = child
				continue
			}
			ctx.Spawn(child)
		}
		return bypass
	}
}
