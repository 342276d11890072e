package patterns

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/microscheduler"
	"github.com/go-foundations/microscheduler/ranges"
)

type ParallelWavefrontTestSuite struct {
	suite.Suite
}

func TestParallelWavefrontTestSuite(t *testing.T) {
	suite.Run(t, new(ParallelWavefrontTestSuite))
}

func (ts *ParallelWavefrontTestSuite) newScheduler() *microscheduler.Scheduler {
	s := microscheduler.NewScheduler(microscheduler.Config{WorkerCount: 4})
	ts.T().Cleanup(func() { _ = s.Shutdown() })
	return s
}

// TestPascalsTriangleMod2To64 mirrors spec.md §8's scenario 5: a 64x64
// grid of 4x4 tiles computing Pascal's triangle mod 2^64 via the
// dependency-respecting wavefront, seeded at the origin.
func (ts *ParallelWavefrontTestSuite) TestPascalsTriangleMod2To64() {
	s := ts.newScheduler()
	const n = 64
	var m [n][n]uint64
	var mu sync.Mutex
	m[0][0] = 1

	r := ranges.NewKdRange2d(ranges.NewRange1d(0, n, 4), ranges.NewRange1d(0, n, 4))
	err := ParallelWavefront(s, r, func(tile ranges.KdRange2d[int]) {
		mu.Lock()
		for i := tile.XRange().Begin(); i < tile.XRange().End(); i++ {
			for j := tile.YRange().Begin(); j < tile.YRange().End(); j++ {
				if i == 0 && j == 0 {
					continue
				}
				var fromLeft, fromBelow uint64
				if i > 0 {
					fromLeft = m[i-1][j]
				}
				if j > 0 {
					fromBelow = m[i][j-1]
				}
				m[i][j] = fromLeft + fromBelow
			}
		}
		mu.Unlock()
	})

	ts.NoError(err)

	want := pascal(n - 1 + n - 1, n - 1)
	ts.Equal(want, m[n-1][n-1])
}

// pascal computes C(n, k) mod 2^64 via Pascal's recurrence, matching the
// uint64 overflow semantics the wavefront body above relies on.
func pascal(n, k int) uint64 {
	row := make([]uint64, n+1)
	row[0] = 1
	for i := 1; i <= n; i++ {
		for j := i; j > 0; j-- {
			row[j] += row[j-1]
		}
	}
	return row[k]
}

func (ts *ParallelWavefrontTestSuite) TestSingleTileRunsOnce() {
	s := ts.newScheduler()
	calls := 0

	r := ranges.NewKdRange2d(ranges.NewRange1d(0, 4, 4), ranges.NewRange1d(0, 4, 4))
	err := ParallelWavefront(s, r, func(tile ranges.KdRange2d[int]) {
		calls++
	})

	ts.NoError(err)
	ts.Equal(1, calls)
}

func (ts *ParallelWavefrontTestSuite) TestEveryTileRunsExactlyOnceInDependencyOrder() {
	s := ts.newScheduler()
	const n = 16
	var mu sync.Mutex
	finished := make(map[[2]int]bool)

	r := ranges.NewKdRange2d(ranges.NewRange1d(0, n, 4), ranges.NewRange1d(0, n, 4))
	err := ParallelWavefront(s, r, func(tile ranges.KdRange2d[int]) {
		x := int(tile.XRange().Begin()) / 4
		y := int(tile.YRange().Begin()) / 4

		mu.Lock()
		defer mu.Unlock()
		if x > 0 {
			ts.True(finished[[2]int{x - 1, y}], "tile (%d,%d) ran before left neighbor", x, y)
		}
		if y > 0 {
			ts.True(finished[[2]int{x, y - 1}], "tile (%d,%d) ran before lower neighbor", x, y)
		}
		ts.False(finished[[2]int{x, y}], "tile (%d,%d) ran twice", x, y)
		finished[[2]int{x, y}] = true
	})

	ts.NoError(err)
	ts.Len(finished, (n/4)*(n/4))
}

func (ts *ParallelWavefrontTestSuite) TestNonDivisibleExtentPanics() {
	s := ts.newScheduler()
	r := ranges.NewKdRange2d(ranges.NewRange1d(0, 10, 4), ranges.NewRange1d(0, 8, 4))

	ts.Panics(func() {
		_ = ParallelWavefront(s, r, func(tile ranges.KdRange2d[int]) {})
	})
}
