package ranges

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SplitterTestSuite struct {
	suite.Suite
}

func TestSplitterTestSuite(t *testing.T) {
	suite.Run(t, new(SplitterTestSuite))
}

func (ts *SplitterTestSuite) TestEvenSplitterOffset() {
	ts.EqualValues(50, EvenSplitter{}.offset(100))
}

func (ts *SplitterTestSuite) TestProportionalSplitterOffset() {
	ts.EqualValues(30, ProportionalSplitter{Left: 3, Right: 7}.offset(100))
}

func (ts *SplitterTestSuite) TestProportionalSplitterFallsBackOnZeroTotal() {
	ts.EqualValues(50, ProportionalSplitter{Left: 0, Right: 0}.offset(100))
}

func (ts *SplitterTestSuite) TestAxisConstantsAreDistinct() {
	ts.NotEqual(AxisX, AxisY)
	ts.NotEqual(AxisY, AxisZ)
	ts.NotEqual(AxisX, AxisZ)
}
