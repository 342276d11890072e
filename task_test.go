package microscheduler

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TaskTestSuite struct {
	suite.Suite
}

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

func (ts *TaskTestSuite) TestFlagsSetClearIdempotent() {
	var t Task
	ts.False(t.hasFlag(flagQueued))

	t.setFlag(flagQueued)
	ts.True(t.hasFlag(flagQueued))
	t.setFlag(flagQueued) // idempotent
	ts.True(t.hasFlag(flagQueued))

	t.clearFlag(flagQueued)
	ts.False(t.hasFlag(flagQueued))
	t.clearFlag(flagQueued) // idempotent
	ts.False(t.hasFlag(flagQueued))
}

func (ts *TaskTestSuite) TestFlagsAreIndependent() {
	var t Task
	t.setFlag(flagStolen)
	ts.True(t.hasFlag(flagStolen))
	ts.False(t.hasFlag(flagRan))
	ts.False(t.hasFlag(flagRecycled))
}

func (ts *TaskTestSuite) TestReleaseReportsZeroTransitionExactlyOnce() {
	var t Task
	t.refCount.Store(2)

	ts.False(t.release(1))
	ts.EqualValues(1, t.Refs())

	ts.True(t.release(1))
	ts.EqualValues(0, t.Refs())
}

func (ts *TaskTestSuite) TestIsStolenReflectsFlag() {
	var t Task
	ts.False(t.IsStolen())
	t.setFlag(flagStolen)
	ts.True(t.IsStolen())
}

func (ts *TaskTestSuite) TestSetContinuationInheritsParentNotSelf() {
	parent := &Task{}
	child := &Task{parent: parent}
	cont := &Task{}

	child.SetContinuation(cont)

	ts.Same(parent, cont.Parent())
	ts.Same(cont, child.Continuation())
	ts.Nil(cont.Continuation())
}

func (ts *TaskTestSuite) TestRecycleAsChildReparentsAndClearsContinuation() {
	join := &Task{}
	t := &Task{continuation: &Task{}}
	t.setFlag(flagExecuting) // only a task running its own body may recycle

	t.RecycleAsChild(join)

	ts.Same(join, t.Parent())
	ts.Nil(t.Continuation())
	ts.True(t.hasFlag(flagRecycled))
}

func (ts *TaskTestSuite) TestUserDataRoundTrips() {
	var t Task
	ts.Nil(t.UserData())
	t.SetUserData(42)
	ts.Equal(42, t.UserData())
}

func (ts *TaskTestSuite) TestRegionRecordsFirstFailureOnly() {
	r := newRegion()
	r.recordFailure("boom")
	r.recordFailure("second")

	err := r.failure.Load()
	ts.Require().NotNil(err)
	ts.Equal("boom", err.Recovered)
}

func (ts *TaskTestSuite) TestRegionCloseIsIdempotent() {
	r := newRegion()
	r.close()
	select {
	case <-r.done:
	default:
		ts.Fail("expected done to be closed")
	}
	ts.NotPanics(func() { r.close() })
}
