package microscheduler

import "sync/atomic"

// kind discriminates the handful of task shapes the engine needs. The
// scheduler this engine is modeled on uses a Task base class with a
// virtual execute(); the worker loop here only ever needs (fn, data), so a
// closed enum plus a function value replaces virtual dispatch (spec.md §9,
// "Inheritance of task kinds").
type kind uint8

const (
	kindEmpty kind = iota
	kindUser
	kindRange
	kindContinuation
)

// flags is the small state bitset from spec.md §3.
type flags uint32

const (
	flagAllocated flags = 1 << iota
	flagQueued
	flagExecuting
	flagRecycled
	flagStolen
	flagRan
)

// Body is the signature a task executes: it receives the scheduling
// context and itself, and may return a "bypass" task that the calling
// worker should run next in place of a deque round-trip (spec.md §4.4).
// A body may spawn children, set a continuation, recycle itself, or do
// none of those and simply return nil.
type Body func(ctx *TaskContext, self *Task) *Task

// regionState is shared by every task descended from one root task
// (one call to AllocateTask / one participating Caller). It is how
// SpawnAndWait observes completion and how a body's panic is carried out
// to the caller, per the user-body failure model in spec.md §7.
type regionState struct {
	done    chan struct{}
	closed  atomic.Bool
	failure atomic.Pointer[BodyError]
}

func newRegion() *regionState {
	return &regionState{done: make(chan struct{})}
}

func (r *regionState) recordFailure(v any) {
	r.failure.CompareAndSwap(nil, &BodyError{Recovered: v})
}

func (r *regionState) close() {
	if r.closed.CompareAndSwap(false, true) {
		close(r.done)
	}
}

// Task is the fixed-size unit of work the scheduler dispatches. Tasks are
// allocated from a per-worker Allocator and never outlive the region that
// spawned them: once the completion protocol reaches it, the task is
// returned to its owner's free list.
type Task struct {
	refCount atomic.Int32
	flags    atomic.Uint32

	kind kind
	fn   Body

	// parent is the task released on this task's completion. continuation
	// is non-nil only when this task has delegated its own completion to
	// a successor via SetContinuation; both are weak (non-owning)
	// back-references, never traversed for ownership purposes.
	parent       *Task
	continuation *Task

	ownerWorkerID int
	region        *regionState

	// userData is the inline payload slot. Small value payloads (ints,
	// small structs) are stored here directly; a body that needs a
	// mutable shared accumulator across siblings stores a pointer, which
	// is the one path that can spill to the heap (spec.md §3 "payload").
	userData any
}

func (t *Task) hasFlag(f flags) bool {
	return flags(t.flags.Load())&f != 0
}

func (t *Task) setFlag(f flags) {
	for {
		old := t.flags.Load()
		if flags(old)&f != 0 {
			return
		}
		if t.flags.CompareAndSwap(old, old|uint32(f)) {
			return
		}
	}
}

func (t *Task) clearFlag(f flags) {
	for {
		old := t.flags.Load()
		nv := old &^ uint32(f)
		if nv == old {
			return
		}
		if t.flags.CompareAndSwap(old, nv) {
			return
		}
	}
}

// release decrements the reference count by n with acq-rel ordering
// (spec.md §4.4, "decrements on completion use acq-rel") and reports
// whether this decrement observed the 1→0 transition, i.e. whether the
// caller is the sole completer responsible for propagating completion.
func (t *Task) release(n int32) bool {
	return t.refCount.Add(-n) == 0
}

// Refs returns the task's current reference count.
func (t *Task) Refs() int32 {
	return t.refCount.Load()
}

// IsStolen reports whether this task's current run began with a steal
// from another worker's deque. The flag is cleared when the task recycles
// itself, so a recycled task's next run reports false. Partitioners read
// this to decide whether to refresh their adaptive split budget.
func (t *Task) IsStolen() bool {
	return t.hasFlag(flagStolen)
}

// Parent returns the task's parent, or nil for a root task.
func (t *Task) Parent() *Task {
	return t.parent
}

// Continuation returns the task's continuation, or nil.
func (t *Task) Continuation() *Task {
	return t.continuation
}

// UserData returns the task's inline payload.
func (t *Task) UserData() any {
	return t.userData
}

// SetUserData sets the task's inline payload. Typically called once right
// after allocation, before the task is spawned.
func (t *Task) SetUserData(v any) {
	t.userData = v
}

// SetContinuation rewires future reparenting and delegates this task's own
// completion obligation to c: c inherits t's parent (c.parent = t.parent),
// and t's own completion, once its body returns without recycling, does
// not release anything further — c will, once all of c's own children
// (which must be allocated separately, NOT including t) complete.
// Spec.md §3/§4.4: "when task T sets continuation C, subsequent children
// of T are reparented to C; T's own execution does not decrement C."
func (t *Task) SetContinuation(c *Task) {
	c.parent = t.parent
	t.continuation = c
}

// Recycle marks the current task as reusable: the scheduler will not run
// its completion protocol or free it when its body returns. The body must
// fully reinitialize fn/userData before returning t (or another task) as
// the worker's next bypass task.
//
// Only the task currently executing its own body may be recycled: a task
// sitting queued in a deque (possibly about to be stolen and run
// concurrently) is not safe to mutate, so recycling one is a contract
// violation rather than the fork-join idiom spec.md §4.4 describes.
func (t *Task) Recycle() {
	if !t.hasFlag(flagExecuting) {
		Violate("Recycle", "task is not currently executing")
	}
	t.setFlag(flagRecycled)
}

// RecycleAsChild recycles t and reparents it to of in one step: of takes
// over t's parent (so of's completion releases whatever t would have), and
// t becomes one of of's counted children (of.Refs() must already account
// for t, e.g. via the n passed to NewJoin) instead of delegating-and-vanishing.
// This is the allocation-saving idiom spec.md §4.4 describes for fib(n):
// instead of allocating a fresh task for the second half of the split, the
// currently executing task reassigns its own parent and is reused for it.
func (t *Task) RecycleAsChild(of *Task) {
	of.parent = t.parent
	t.parent = of
	t.continuation = nil
	t.Recycle()
}
