package microscheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Config controls the scheduler's worker count and steal behavior.
// Following the teacher's DefaultConfig/clamping pattern: zero-valued
// fields are replaced with sane defaults rather than rejected.
type Config struct {
	// WorkerCount is the number of pool worker goroutines. Defaults to
	// runtime.NumCPU() (spec.md §6, "default = hardware thread count").
	WorkerCount int

	// StealRetryRounds is how many consecutive empty pop+steal rounds a
	// worker tolerates before parking. Defaults to 2*WorkerCount.
	StealRetryRounds int

	// AllocatorPrewarm is how many free *Task slots each worker's
	// Allocator starts with.
	AllocatorPrewarm int
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		WorkerCount:      n,
		StealRetryRounds: 2 * n,
		AllocatorPrewarm: 32,
	}
}

func (c Config) withDefaults() Config {
	if c.WorkerCount <= 0 {
		c.WorkerCount = runtime.NumCPU()
	}
	if c.StealRetryRounds <= 0 {
		c.StealRetryRounds = 2 * c.WorkerCount
	}
	if c.AllocatorPrewarm <= 0 {
		c.AllocatorPrewarm = 32
	}
	return c
}

// Scheduler is the engine: it owns a WorkerPool, one Deque/Allocator per
// worker slot, and the fork-join completion protocol described in
// spec.md §4.4.
type Scheduler struct {
	config Config
	pool   *WorkerPool

	// handles holds the fixed pool-worker slots, index == worker id.
	// handleSnapshot additionally publishes pool handles plus any
	// currently-registered Caller handles, for steal-victim selection;
	// it is replaced wholesale (copy-on-write) whenever a Caller
	// registers or deregisters, which is rare relative to the steal hot
	// path that reads it.
	handles        []*workerHandle
	handleSnapshot atomic.Pointer[[]*workerHandle]
	handleMu       sync.Mutex
	nextCallerID   atomic.Int32
}

// NewScheduler creates a Scheduler over a fresh WorkerPool sized per
// config, and starts its workers immediately.
func NewScheduler(config Config) *Scheduler {
	config = config.withDefaults()
	s := &Scheduler{
		config: config,
		pool:   NewWorkerPool(config.WorkerCount),
	}
	s.handles = make([]*workerHandle, config.WorkerCount)
	for i := range s.handles {
		s.handles[i] = newWorkerHandle(i, config.AllocatorPrewarm)
	}
	s.publishSnapshot()
	s.pool.Run(s.poolWorkerLoop)
	return s
}

func (s *Scheduler) publishSnapshot() {
	all := make([]*workerHandle, 0, len(s.handles)+4)
	all = append(all, s.handles...)
	s.handleSnapshot.Store(&all)
}

func (s *Scheduler) snapshotHandles() []*workerHandle {
	p := s.handleSnapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (s *Scheduler) handleByID(id int) *workerHandle {
	for _, h := range s.snapshotHandles() {
		if h.id == id {
			return h
		}
	}
	return nil
}

func (s *Scheduler) registerCaller() *workerHandle {
	id := int(s.nextCallerID.Add(1)) + len(s.handles)
	h := newWorkerHandle(id, 4)

	s.handleMu.Lock()
	cur := s.snapshotHandles()
	next := make([]*workerHandle, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, h)
	s.handleSnapshot.Store(&next)
	s.handleMu.Unlock()

	return h
}

func (s *Scheduler) deregisterCaller(h *workerHandle) {
	s.handleMu.Lock()
	cur := s.snapshotHandles()
	next := make([]*workerHandle, 0, len(cur))
	for _, v := range cur {
		if v.id != h.id {
			next = append(next, v)
		}
	}
	s.handleSnapshot.Store(&next)
	s.handleMu.Unlock()
}

// Shutdown stops the worker pool, letting workers drain whatever is
// already in their deques (spec.md §5). It returns the first crashed-worker
// error collected by the pool's errgroup, if any worker loop exited on a
// genuine scheduler bug rather than a clean shutdown.
func (s *Scheduler) Shutdown() error {
	return s.pool.Shutdown()
}

// WorkerCount returns the number of fixed pool-worker slots the
// scheduler was created with, for callers sizing a partitioner's initial
// split depth off of it (spec.md §4.6's adjust_divisor/split_initial_depth).
func (s *Scheduler) WorkerCount() int {
	return s.config.WorkerCount
}

// Caller lets a goroutine outside the pool participate as a temporary
// worker (spec.md §4.4/§5): it gets its own Deque and Allocator, allocates
// root tasks, and does real steal-driven work while blocked in
// SpawnAndWait instead of sleeping.
type Caller struct {
	s *Scheduler
	h *workerHandle
}

// NewCaller registers a temporary worker slot for the calling goroutine.
// Close must be called when done to remove it from the steal graph.
func (s *Scheduler) NewCaller() *Caller {
	return &Caller{s: s, h: s.registerCaller()}
}

// Close deregisters the caller's worker slot. Any tasks left in its
// local deque must already have been drained by SpawnAndWait; Close does
// not drain them itself.
func (c *Caller) Close() {
	c.s.deregisterCaller(c.h)
}

// AllocateTask allocates a new root task: no parent, a fresh completion
// region, reference count 1 (spec.md §4.4, "ready to execute when
// ref_count==1").
func (c *Caller) AllocateTask(fn Body) *Task {
	t := c.h.alloc.Allocate()
	t.kind = kindUser
	t.fn = fn
	t.region = newRegion()
	t.refCount.Store(1)
	return t
}

// Spawn pushes t onto the caller's local deque without waiting for it.
func (c *Caller) Spawn(t *Task) {
	c.s.spawn(c.h, t)
}

// SpawnAndWait spawns root and blocks the calling goroutine, doing real
// scheduler work, until root's whole region completes. It returns the
// first BodyError any task in the region recorded, if any.
func (c *Caller) SpawnAndWait(root *Task) error {
	c.s.spawn(c.h, root)
	c.s.waitFor(c.h, root)
	if err := root.region.failure.Load(); err != nil {
		return err
	}
	return nil
}

// spawn pushes t onto h's local deque and wakes one parked worker.
func (s *Scheduler) spawn(h *workerHandle, t *Task) {
	if t.hasFlag(flagQueued) {
		Violate("spawn", "task is already queued")
	}
	t.ownerWorkerID = h.id
	t.setFlag(flagQueued)
	h.deque.PushBottom(t)
	s.pool.NotifyOne()
}

// step runs t's body once and returns the next task the calling worker
// should run as a bypass, or nil.
func (s *Scheduler) step(h *workerHandle, t *Task) (bypass *Task) {
	ctx := &TaskContext{Scheduler: s, WorkerID: h.id, h: h}

	t.setFlag(flagExecuting)
	var next *Task
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.region.recordFailure(r)
				next = nil
			}
		}()
		next = t.fn(ctx, t)
	}()
	t.clearFlag(flagExecuting)
	t.clearFlag(flagQueued)

	if t.hasFlag(flagRecycled) {
		t.clearFlag(flagRecycled)
		t.clearFlag(flagStolen)
		return next
	}

	t.setFlag(flagRan)

	var ready *Task
	if t.kind == kindContinuation {
		ready = s.finish(h, t)
	} else if t.release(1) {
		ready = s.finish(h, t)
	}

	if next != nil {
		if ready != nil {
			// Both the body and the completion protocol produced a
			// runnable task; only one can be bypassed, so the other
			// goes through a normal spawn.
			s.spawn(h, ready)
		}
		return next
	}
	return ready
}

// finish frees t and propagates completion up the parent chain,
// returning the next task that became ready to run for the first time
// (to be bypassed by the caller), or nil if propagation stalled on a
// task with other pending children or reached a region root.
func (s *Scheduler) finish(h *workerHandle, t *Task) *Task {
	for {
		s.freeTask(h, t)

		if t.continuation != nil {
			// t delegated its completion obligation; the continuation
			// will release t.parent once its own children finish.
			return nil
		}

		p := t.parent
		if p == nil {
			t.region.close()
			return nil
		}

		if !p.release(1) {
			return nil
		}

		if !p.hasFlag(flagRan) {
			return p
		}

		t = p
	}
}

func (s *Scheduler) freeTask(h *workerHandle, t *Task) {
	if t.ownerWorkerID == h.id {
		h.alloc.free(t)
		return
	}
	owner := s.handleByID(t.ownerWorkerID)
	if owner == nil {
		// Owner deregistered (a Caller that has since Closed); drop the
		// task rather than leak it into a dead allocator.
		return
	}
	owner.alloc.freeRemote(t)
}
