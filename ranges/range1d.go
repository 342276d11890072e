// Package ranges provides the iteration-range types the parallel patterns
// split recursively: Range1d and its 2D/3D/quad/oct derivatives. They are
// a generics-over-integer-iterators port of the blocked_range family (as
// used by Intel TBB and by the scheduler this package is modeled on),
// carrying an origin, a minimum
// sub-range size, and an optional "split on multiples of" alignment.
package ranges

import "github.com/go-foundations/microscheduler"

// Integer is the set of index types a range can iterate.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Range1d is a contiguous [begin, end) span of an Integer index type, with
// an origin (the begin it was constructed with; Split gives the new right
// half its split point as origin, so origin always equals begin), an
// initialSize fixed at construction (used by
// KdRange2d/KdRange3d neighbor computations to clamp a reconstructed
// neighbor so it never overshoots the range's original extent), and a
// splitting policy: a range is divisible only while halving it would
// leave both halves at least minSize, and splits try to land on a
// multiple of splitOnMultiplesOf offset from the origin.
type Range1d[T Integer] struct {
	origin             T
	begin              T
	end                T
	initialSize        T
	minSize            T
	splitOnMultiplesOf T
}

// NewRange1d builds a range over [begin, end), with begin as its origin.
// splitOnMultiplesOf defaults to 1 (no alignment constraint) when 0.
func NewRange1d[T Integer](begin, end, minSize T, splitOnMultiplesOf ...T) Range1d[T] {
	som := T(1)
	if len(splitOnMultiplesOf) > 0 && splitOnMultiplesOf[0] != 0 {
		som = splitOnMultiplesOf[0]
	}
	if minSize < som {
		minSize = som
	}
	size := T(0)
	if end > begin {
		size = end - begin
	}
	return Range1d[T]{origin: begin, begin: begin, end: end, initialSize: size, minSize: minSize, splitOnMultiplesOf: som}
}

func (r Range1d[T]) Origin() T             { return r.origin }
func (r Range1d[T]) Begin() T              { return r.begin }
func (r Range1d[T]) End() T                { return r.end }
func (r Range1d[T]) InitialSize() T        { return r.initialSize }
func (r Range1d[T]) MinSize() T            { return r.minSize }
func (r Range1d[T]) SplitOnMultiplesOf() T { return r.splitOnMultiplesOf }

// Size returns end-begin, clamped to 0 for an inverted/empty range.
func (r Range1d[T]) Size() T {
	if r.end <= r.begin {
		return 0
	}
	return r.end - r.begin
}

// Empty reports whether the range has no elements.
func (r Range1d[T]) Empty() bool {
	return r.begin >= r.end
}

// IsDivisible reports whether Split would produce two non-empty halves
// each still at least minSize.
func (r Range1d[T]) IsDivisible() bool {
	return r.Size() > 2*r.minSize-1 && r.Size() > r.minSize
}

// splitHelper computes the offset (from begin) at which to split a range
// of the given size, honoring minSize and alignment, per the named
// Splitter's proportion.
func splitHelper[T Integer](size, minSize, splitOnMultiplesOf T, s Splitter) T {
	mid := s.offset(int64(size))
	if mid < int64(minSize) {
		mid = int64(minSize)
	}
	if int64(size)-mid < int64(minSize) {
		mid = int64(size) - int64(minSize)
	}
	if splitOnMultiplesOf > 1 {
		som := int64(splitOnMultiplesOf)
		aligned := (mid / som) * som
		if aligned >= int64(minSize) && int64(size)-aligned >= int64(minSize) {
			mid = aligned
		}
	}
	if mid <= 0 {
		mid = int64(minSize)
	}
	if mid >= int64(size) {
		mid = int64(size) - int64(minSize)
	}
	return T(mid)
}

// Split divides the range in two: r is mutated in place to become the
// left half [begin, mid), and the right half [mid, end) is returned. This
// mirrors the split_type constructor idiom from the blocked_range family:
// the caller already holds r, so only the new right half needs a fresh
// value. Both halves inherit r's initialSize unchanged, matching the
// source's m_initialSize, which is set once at construction and never
// touched by split().
func (r *Range1d[T]) Split(s Splitter) Range1d[T] {
	if !r.IsDivisible() {
		microscheduler.Violate("Range1d.Split", "range is not divisible")
	}
	size := r.Size()
	offset := splitHelper(size, r.minSize, r.splitOnMultiplesOf, s)
	mid := r.begin + offset

	right := Range1d[T]{origin: mid, begin: mid, end: r.end, initialSize: r.initialSize, minSize: r.minSize, splitOnMultiplesOf: r.splitOnMultiplesOf}
	r.end = mid
	return right
}
