package microscheduler

import "sync"

// notifier is a park/notify-one eventcount. A worker that has exhausted its
// steal retries reads the current sequence, then parks until that sequence
// changes; Notify bumps the sequence under the same mutex a parked waiter
// holds, which gives the woken worker a happens-before edge with whatever
// the notifying spawn just pushed (spec.md §5, "parking uses an event
// counter so a subsequent spawn wakes exactly one parked worker with
// happens-before on the pushed task"). This is the pool's one mutex+condvar
// in the execution path; it is touched only on park/unpark, never on the
// deque/ref-count hot path.
type notifier struct {
	mu   sync.Mutex
	cond *sync.Cond
	seq  uint64
}

func newNotifier() *notifier {
	n := &notifier{}
	n.cond = sync.NewCond(&n.mu)
	return n
}

// Sequence returns the current wake sequence, to be passed to Park.
func (n *notifier) Sequence() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

// Park blocks until the sequence advances past seq, or done reports true.
func (n *notifier) Park(seq uint64, done func() bool) {
	n.mu.Lock()
	for n.seq == seq && !done() {
		n.cond.Wait()
	}
	n.mu.Unlock()
}

// NotifyOne wakes at least one parked worker (sync.Cond.Signal does not
// guarantee exactly one on all platforms, but guarantees at least one if
// any are waiting, which satisfies spec.md's "notifies one parked worker").
func (n *notifier) NotifyOne() {
	n.mu.Lock()
	n.seq++
	n.mu.Unlock()
	n.cond.Signal()
}

// NotifyAll wakes every parked worker, used at shutdown.
func (n *notifier) NotifyAll() {
	n.mu.Lock()
	n.seq++
	n.mu.Unlock()
	n.cond.Broadcast()
}
