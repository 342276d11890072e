package microscheduler

import "sync/atomic"

// Deque is a resizable circular-buffer work-stealing deque, after Chase and
// Lev. The owning worker pushes and pops at the bottom (LIFO, depth-first,
// cache-friendly); any other worker may steal from the top (FIFO against
// the owner's push order, "steal-oldest"). All index and buffer-pointer
// operations use sync/atomic, which in the Go memory model gives every
// individual atomic access sequentially-consistent ordering relative to
// other atomic accesses on the same word — at least as strong as the
// acquire/release/seq-cst mix spec.md §4.1/§9 calls for, so no separate
// memory_order parameter is threaded through these calls.
type Deque struct {
	// bottom is only ever written by the owner. top is written by the
	// owner (in PopBottom's last-element race) and by thieves (in
	// StealTop).
	bottom atomic.Int64
	top    atomic.Int64
	buf    atomic.Pointer[dequeBuffer]
}

type dequeBuffer struct {
	mask int64
	data []atomic.Pointer[Task]
}

func newDequeBuffer(capacity int64) *dequeBuffer {
	return &dequeBuffer{
		mask: capacity - 1,
		data: make([]atomic.Pointer[Task], capacity),
	}
}

func (b *dequeBuffer) get(i int64) *Task {
	return b.data[i&b.mask].Load()
}

func (b *dequeBuffer) put(i int64, t *Task) {
	b.data[i&b.mask].Store(t)
}

// grow copies the live range [top, bottom) into a buffer of twice the
// capacity. Called only by the owner from PushBottom, so no other mutator
// can be racing the copy; thieves that observe a stale, smaller buffer
// simply retry against the index they already hold, per spec.md §4.1.
func (b *dequeBuffer) grow(top, bottom int64) *dequeBuffer {
	nb := newDequeBuffer(int64(len(b.data)) * 2)
	for i := top; i < bottom; i++ {
		nb.put(i, b.get(i))
	}
	return nb
}

// NewDeque creates a deque with the given initial capacity, rounded up
// internally is not performed here: callers must pass a power of two.
func NewDeque(initialCapacity int64) *Deque {
	if initialCapacity <= 0 {
		initialCapacity = 64
	}
	d := &Deque{}
	d.buf.Store(newDequeBuffer(initialCapacity))
	return d
}

// PushBottom stores t and publishes the new bottom. Owner-only. Grows the
// buffer first if it is full; there is no other failure path (an
// out-of-memory growth panics, per spec.md §7's resource-exhaustion model
// for deque growth).
func (d *Deque) PushBottom(t *Task) {
	b := d.bottom.Load()
	top := d.top.Load()
	buf := d.buf.Load()

	if b-top >= int64(len(buf.data)) {
		buf = buf.grow(top, b)
		d.buf.Store(buf)
	}

	buf.put(b, t)
	d.bottom.Store(b + 1)
}

// PopBottom removes and returns the bottom element. Owner-only. When only
// one element remains, it races the last element against a concurrent
// thief via a CAS on top; the loser reports empty.
func (d *Deque) PopBottom() (*Task, bool) {
	b := d.bottom.Load() - 1
	buf := d.buf.Load()
	d.bottom.Store(b)

	top := d.top.Load()

	if top > b {
		// Empty, or we and a thief both observed the single last
		// element; restore bottom to its steady-state value.
		d.bottom.Store(top)
		return nil, false
	}

	t := buf.get(b)

	if top == b {
		// Last element: race a thief for it.
		if !d.top.CompareAndSwap(top, top+1) {
			// Lost the race.
			d.bottom.Store(top + 1)
			return nil, false
		}
		d.bottom.Store(top + 1)
	}

	return t, true
}

// StealTop removes and returns the top element. Any worker but the owner
// may call this. Returns Empty (ok=false) if the deque was empty or the
// CAS lost a race to another thief or the owner's PopBottom.
func (d *Deque) StealTop() (*Task, bool) {
	top := d.top.Load()
	bottom := d.bottom.Load()

	if top >= bottom {
		return nil, false
	}

	buf := d.buf.Load()
	t := buf.get(top)

	if !d.top.CompareAndSwap(top, top+1) {
		return nil, false
	}

	return t, true
}

// Size reports the deque's current steady-state length. It is advisory: a
// concurrent push/pop/steal can change it immediately after this returns.
func (d *Deque) Size() int64 {
	size := d.bottom.Load() - d.top.Load()
	if size < 0 {
		return 0
	}
	return size
}

// IsEmpty reports whether Size observed zero.
func (d *Deque) IsEmpty() bool {
	return d.Size() == 0
}
