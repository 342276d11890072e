package microscheduler

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// WorkerPool is the out-of-scope collaborator spec.md §1 describes: "just
// an abstraction that owns N OS threads, each bound to one scheduler slot
// and exposing an id; its contract is 'invoke a loop body repeatedly and
// wake sleeping workers on notify'." The Scheduler is the only caller of
// this type; application code never touches it directly.
//
// Lifetime management is delegated to golang.org/x/sync/errgroup, grounded
// on the errgroup-driven parallel task scheduler in
// other_examples/...diff_parallel.go.go, which owns a comparable
// queue-of-tasks-over-N-goroutines shape.
type WorkerPool struct {
	workerCount int
	notify      *notifier
	shuttingDn  atomic.Bool
	group       *errgroup.Group
}

// NewWorkerPool creates a pool of n worker slots. It does not start any
// goroutines until Run is called.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = 1
	}
	return &WorkerPool{
		workerCount: n,
		notify:      newNotifier(),
	}
}

// WorkerCount returns the number of worker slots.
func (p *WorkerPool) WorkerCount() int {
	return p.workerCount
}

// Run invokes loop(id) once per worker slot, each on its own goroutine.
// loop is expected to run until it observes ShuttingDown, returning nil in
// that case; any other return is a crashed worker, collected by the
// errgroup and surfaced through Shutdown.
func (p *WorkerPool) Run(loop func(workerID int) error) {
	p.group = new(errgroup.Group)
	for i := 0; i < p.workerCount; i++ {
		workerID := i
		p.group.Go(func() error {
			return loop(workerID)
		})
	}
}

// NotifyOne wakes one parked worker, giving it happens-before visibility
// of whatever was pushed before the call.
func (p *WorkerPool) NotifyOne() {
	p.notify.NotifyOne()
}

// ParkSeq returns the wake sequence a worker should pass to Park after
// deciding it has no work left to try.
func (p *WorkerPool) ParkSeq() uint64 {
	return p.notify.Sequence()
}

// Park blocks the calling worker until NotifyOne/NotifyAll advances past
// seq, or the pool starts shutting down.
func (p *WorkerPool) Park(seq uint64) {
	p.notify.Park(seq, p.ShuttingDown)
}

// ShuttingDown reports whether Shutdown has been called.
func (p *WorkerPool) ShuttingDown() bool {
	return p.shuttingDn.Load()
}

// Shutdown sets the cooperative shutdown flag, wakes every parked worker,
// and waits for all worker goroutines to exit. Per spec.md §5, shutdown is
// cooperative: workers drain whatever is already in their deques before
// observing the flag and exiting. It returns the first crashed-worker error
// any loop returned, or nil if every worker exited cleanly.
func (p *WorkerPool) Shutdown() error {
	p.shuttingDn.Store(true)
	p.notify.NotifyAll()
	if p.group != nil {
		return p.group.Wait()
	}
	return nil
}
