package ranges

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type Range1dTestSuite struct {
	suite.Suite
}

func TestRange1dTestSuite(t *testing.T) {
	suite.Run(t, new(Range1dTestSuite))
}

func (ts *Range1dTestSuite) TestSizeAndEmpty() {
	r := NewRange1d(0, 10, 1)
	ts.EqualValues(10, r.Size())
	ts.False(r.Empty())

	empty := NewRange1d(5, 5, 1)
	ts.EqualValues(0, empty.Size())
	ts.True(empty.Empty())
}

func (ts *Range1dTestSuite) TestIsDivisible() {
	ts.True(NewRange1d(0, 10, 1).IsDivisible())
	ts.False(NewRange1d(0, 2, 2).IsDivisible())
	ts.False(NewRange1d(0, 1, 1).IsDivisible())
}

func (ts *Range1dTestSuite) TestSplitPreservesTotalAndAdjacency() {
	r := NewRange1d(0, 10, 1)
	total := r.Size()

	right := r.Split(EvenSplitter{})

	ts.Equal(total, r.Size()+right.Size())
	ts.Equal(r.End(), right.Begin())
	ts.Equal(int(r.Begin()), 0)
}

func (ts *Range1dTestSuite) TestEvenSplitterHalves() {
	r := NewRange1d(0, 10, 1)
	right := r.Split(EvenSplitter{})
	ts.EqualValues(5, r.Size())
	ts.EqualValues(5, right.Size())
}

func (ts *Range1dTestSuite) TestProportionalSplitter() {
	r := NewRange1d(0, 10, 1)
	right := r.Split(ProportionalSplitter{Left: 3, Right: 7})
	ts.EqualValues(3, r.Size())
	ts.EqualValues(7, right.Size())
}

func (ts *Range1dTestSuite) TestSplitRespectsMinSize() {
	r := NewRange1d(0, 10, 4)
	right := r.Split(EvenSplitter{})
	ts.GreaterOrEqual(r.Size(), 4)
	ts.GreaterOrEqual(right.Size(), 4)
	ts.EqualValues(10, r.Size()+right.Size())
}

func (ts *Range1dTestSuite) TestRecursiveSplitTilesExactly() {
	r := NewRange1d(0, 100, 1)
	var leaves []Range1d[int]
	var recurse func(Range1d[int])
	recurse = func(cur Range1d[int]) {
		if !cur.IsDivisible() {
			leaves = append(leaves, cur)
			return
		}
		right := cur.Split(EvenSplitter{})
		recurse(cur)
		recurse(right)
	}
	recurse(r)

	var total int
	for i, leaf := range leaves {
		total += int(leaf.Size())
		if i > 0 {
			ts.Equal(leaves[i-1].End(), leaf.Begin())
		}
	}
	ts.Equal(100, total)
	ts.EqualValues(0, leaves[0].Begin())
	ts.EqualValues(100, leaves[len(leaves)-1].End())
}

func (ts *Range1dTestSuite) TestSplitOnMultiplesOfAligns() {
	r := NewRange1d(0, 15, 1, 4)
	right := r.Split(EvenSplitter{})
	ts.Zero(int64(r.Size()) % 4)
	ts.EqualValues(15, r.Size()+right.Size())
}
