package microscheduler

// TaskContext is passed to every running Body. It carries a reference to
// the owning Scheduler and the id of the worker currently running the
// task (spec.md §6: "TaskContext... carries a scheduler reference and
// worker_id"), and is the only way a body allocates children, sets up a
// continuation, or spawns.
type TaskContext struct {
	Scheduler *Scheduler
	WorkerID  int

	h *workerHandle
}

// NewChild allocates a task parented to of. of's reference count must
// already account for this child (typically via a preceding NewJoin(of,
// n, ...) call) -- NewChild does not increment anything itself. The new
// task is owned by the currently running worker.
func (ctx *TaskContext) NewChild(of *Task, fn Body) *Task {
	t := ctx.h.alloc.Allocate()
	t.kind = kindUser
	t.fn = fn
	t.parent = of
	t.region = of.region
	t.refCount.Store(1)
	return t
}

// NewJoin allocates a continuation task with its reference count preset
// to n (the exact number of children that will report to it: spec.md
// §4.4, "Parent allocates a continuation task C ... sets C.ref_count =
// 2"). onReady runs once all n children have completed. The continuation
// inherits likeTask's region but not its parent: callers that want the
// continuation to inherit likeTask's own reporting obligation must also
// call likeTask.SetContinuation, and callers that want likeTask itself to
// count as one of the n children must call likeTask.RecycleAsChild
// instead.
func (ctx *TaskContext) NewJoin(likeTask *Task, n int32, onReady Body) *Task {
	c := ctx.h.alloc.Allocate()
	c.kind = kindContinuation
	c.fn = onReady
	c.region = likeTask.region
	c.refCount.Store(n)
	return c
}

// Spawn pushes t onto the current worker's local deque and wakes one
// parked worker.
func (ctx *TaskContext) Spawn(t *Task) {
	ctx.Scheduler.spawn(ctx.h, t)
}
