package microscheduler

import (
	"fmt"
	"math/rand"
	"runtime"
)

// workerHandle is the scheduler-private state for one participant in the
// steal graph: either a real pool worker or a goroutine temporarily
// participating via Caller (spec.md §4.4/§5, "the calling thread
// participates as a temporary worker").
type workerHandle struct {
	id    int
	deque *Deque
	alloc *Allocator
	rng   *rand.Rand
}

func newWorkerHandle(id, prewarm int) *workerHandle {
	return &workerHandle{
		id:    id,
		deque: NewDeque(0),
		alloc: NewAllocator(id, prewarm),
		// math/rand.New(rand.NewSource(...)) is not safe for concurrent
		// use, but each handle is only ever driven by its own worker
		// goroutine, so this is race-free.
		rng: rand.New(rand.NewSource(int64(id)*2654435761 + 1)),
	}
}

// pause yields the processor to another goroutine. It is the Go analogue
// of the CPU pause/backoff intrinsic spec.md §2.1 mentions for spin-wait
// loops; Go has no portable pause instruction, and runtime.Gosched is the
// idiomatic substitute used for the same purpose elsewhere in the
// ecosystem.
func pause() {
	runtime.Gosched()
}

// tryRunOne attempts to run exactly one task on behalf of h: first its
// own deque bottom, then a steal attempt against each of the other known
// workers in turn, cycling from a pseudo-randomly chosen start. It reports
// whether it found and ran something.
func (s *Scheduler) tryRunOne(h *workerHandle) bool {
	if t, ok := h.deque.PopBottom(); ok {
		s.execute(h, t)
		return true
	}

	victims := s.snapshotHandles()
	n := len(victims)
	if n <= 1 {
		return false
	}

	start := h.rng.Intn(n)
	for i := 0; i < n; i++ {
		v := victims[(start+i)%n]
		if v.id == h.id {
			continue
		}
		if t, ok := v.deque.StealTop(); ok {
			t.setFlag(flagStolen)
			s.execute(h, t)
			return true
		}
	}
	return false
}

// execute runs t and then any bypass chain it returns, without
// round-tripping through the deque (spec.md §4.4's bypass optimization).
func (s *Scheduler) execute(h *workerHandle, t *Task) {
	for t != nil {
		t = s.step(h, t)
	}
}

// poolWorkerLoop is the body handed to WorkerPool.Run for each real
// worker slot. It pops/steals until steal_retry_rounds consecutive empty
// rounds, then parks; NotifyOne (from any spawn) or NotifyAll (from
// shutdown) wakes it.
//
// Task-body panics never reach here: step recovers them per-task into a
// BodyError on the owning region, by design (spec.md §7's failure-isolation
// model keeps one bad task from taking down its siblings). Anything that
// does reach here is a genuine scheduler bug — a ContractViolation raised
// by spawn/finish/release bookkeeping outside a task body, say — and is
// returned as a real error so errgroup can collect it and WorkerPool.Shutdown
// can surface it, instead of the panic crashing the process silently.
func (s *Scheduler) poolWorkerLoop(id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("microscheduler: worker %d crashed: %v", id, r)
		}
	}()

	h := s.handles[id]
	rounds := 0
	for {
		if s.tryRunOne(h) {
			rounds = 0
			continue
		}
		rounds++
		if rounds < s.config.StealRetryRounds {
			continue
		}
		if s.pool.ShuttingDown() {
			return nil
		}
		seq := s.pool.ParkSeq()
		if !h.deque.IsEmpty() {
			rounds = 0
			continue
		}
		s.pool.Park(seq)
		rounds = 0
	}
}

// waitFor is the loop a Caller runs while blocked in SpawnAndWait: it
// keeps doing real work (its own deque, then stealing) until root's
// region is closed by the completion protocol.
func (s *Scheduler) waitFor(h *workerHandle, root *Task) {
	region := root.region
	for {
		select {
		case <-region.done:
			return
		default:
		}
		if !s.tryRunOne(h) {
			pause()
		}
	}
}
