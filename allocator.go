package microscheduler

import "sync"

// Allocator is a per-worker free-list cache of *Task slots. allocate pops
// from the local list (or refills in bulk from a fresh batch); free pushes
// onto the owner's local list when called by the owner, or onto a
// thread-safe cross-worker return bin otherwise, which the owner drains
// lazily on the next allocation that finds its local list empty. This
// keeps the hot allocation path
// lock-free and cache-resident, per spec.md §4.2.
type Allocator struct {
	workerID int

	local []*Task // owner-only LIFO free list

	returnMu  sync.Mutex // guards returned, touched only by non-owner Free callers
	returned  []*Task
	batchSize int
}

// NewAllocator creates an allocator for the given worker, prewarmed with
// prewarm free tasks.
func NewAllocator(workerID int, prewarm int) *Allocator {
	a := &Allocator{
		workerID:  workerID,
		batchSize: 32,
	}
	if prewarm > 0 {
		a.refill(prewarm)
	}
	return a
}

func (a *Allocator) refill(n int) {
	for i := 0; i < n; i++ {
		a.local = append(a.local, &Task{})
	}
}

func (a *Allocator) drainReturned() {
	a.returnMu.Lock()
	if len(a.returned) > 0 {
		a.local = append(a.local, a.returned...)
		a.returned = a.returned[:0]
	}
	a.returnMu.Unlock()
}

// Allocate returns a fresh *Task owned by this allocator's worker, fully
// zeroed for re-initialization by the caller.
func (a *Allocator) Allocate() *Task {
	if len(a.local) == 0 {
		a.drainReturned()
	}
	if len(a.local) == 0 {
		a.refill(a.batchSize)
	}
	n := len(a.local) - 1
	t := a.local[n]
	a.local[n] = nil
	a.local = a.local[:n]

	*t = Task{ownerWorkerID: a.workerID}
	t.setFlag(flagAllocated)
	return t
}

// free returns t to this allocator's own local free list. Only valid when
// called by t's owning worker.
func (a *Allocator) free(t *Task) {
	t.clearFlag(flagAllocated)
	a.local = append(a.local, t)
}

// freeRemote pushes t onto the cross-worker return bin, for use by any
// worker other than t's owner. Thread-safe.
func (a *Allocator) freeRemote(t *Task) {
	a.returnMu.Lock()
	a.returned = append(a.returned, t)
	a.returnMu.Unlock()
}
