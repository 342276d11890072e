package patterns

import "sync/atomic"

// dependencyGrid tracks, for a cols x rows wavefront, how many
// predecessors (the tile to the left and the tile below) each tile is
// still waiting on. A tile becomes ready exactly when its last
// predecessor releases it.
type dependencyGrid struct {
	cols, rows int
	pending    []atomic.Int32
}

func newDependencyGrid(cols, rows int) *dependencyGrid {
	g := &dependencyGrid{cols: cols, rows: rows, pending: make([]atomic.Int32, cols*rows)}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			n := int32(0)
			if x > 0 {
				n++
			}
			if y > 0 {
				n++
			}
			g.pending[g.index(x, y)].Store(n)
		}
	}
	return g
}

func (g *dependencyGrid) index(x, y int) int {
	return y*g.cols + x
}

func (g *dependencyGrid) inBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// release decrements (x, y)'s predecessor count and reports whether that
// was its last one, i.e. whether the tile just became ready to run.
func (g *dependencyGrid) release(x, y int) bool {
	if !g.inBounds(x, y) {
		return false
	}
	return g.pending[g.index(x, y)].Add(-1) == 0
}
