package ranges

import "github.com/go-foundations/microscheduler"

// KdRange2d is a 2D iteration range that splits along whichever axis is
// relatively larger (weighted by that axis's minimum size), producing a
// Kd-tree of sub-ranges where each leaf is a unit of work. Derivative of
// TBB's blocked_range2d.
type KdRange2d[T Integer] struct {
	x, y       Range1d[T]
	wasSplitOn SubRangeIndex
}

const kdSplitNone SubRangeIndex = -1

// NewKdRange2d builds a range over the given x and y extents.
func NewKdRange2d[T Integer](x, y Range1d[T]) KdRange2d[T] {
	return KdRange2d[T]{x: x, y: y, wasSplitOn: kdSplitNone}
}

func (r KdRange2d[T]) XRange() Range1d[T] { return r.x }
func (r KdRange2d[T]) YRange() Range1d[T] { return r.y }

func (r KdRange2d[T]) IsDivisible() bool {
	return r.x.IsDivisible() || r.y.IsDivisible()
}

func (r KdRange2d[T]) Empty() bool {
	return r.x.Empty() || r.y.Empty()
}

// Size is the element count of the rectangle.
func (r KdRange2d[T]) Size() uint64 {
	return uint64(r.x.Size()) * uint64(r.y.Size())
}

// Split divides along whichever axis is relatively larger (size weighted
// by the other axis's MinSize, matching the original's comparison so a
// tall-thin or short-wide rectangle converges to square-ish leaves), and
// returns the new sibling. r is mutated in place to the remaining half.
func (r *KdRange2d[T]) Split(s Splitter) KdRange2d[T] {
	splitX := r.x.IsDivisible()
	splitY := r.y.IsDivisible()
	if !splitX && !splitY {
		microscheduler.Violate("KdRange2d.Split", "range is not divisible along either axis")
	}

	var onX bool
	switch {
	case splitX && !splitY:
		onX = true
	case splitY && !splitX:
		onX = false
	default:
		// Both divisible: split whichever is relatively bigger.
		onX = int64(r.x.Size())*int64(r.y.MinSize()) >= int64(r.y.Size())*int64(r.x.MinSize())
	}

	sibling := *r
	if onX {
		sibling.x = r.x.Split(s)
		r.wasSplitOn = AxisX
		sibling.wasSplitOn = AxisX
	} else {
		sibling.y = r.y.Split(s)
		r.wasSplitOn = AxisY
		sibling.wasSplitOn = AxisY
	}
	return sibling
}

// XNeighbor returns the adjacent tile in the +X direction, clamped so its
// end never overshoots the X sub-range's initialSize. When the current
// range was itself produced by a split along X, the neighbor's Y extent is
// doubled (also clamped to Y's initialSize): the neighbor represents the
// footprint of the sibling that was merged back together by the split,
// per spec.md §4.5.
func (r KdRange2d[T]) XNeighbor() KdRange2d[T] {
	n := r

	nx := r.x
	nx.begin = r.x.End()
	nx.end = r.x.End() + r.x.Size()
	if nx.end > r.x.InitialSize() {
		nx.end = r.x.InitialSize()
	}
	n.x = nx

	if r.wasSplitOn == AxisX {
		ny := r.y
		ny.end = r.y.Begin() + r.y.Size()*2
		if ny.end > r.y.InitialSize() {
			ny.end = r.y.InitialSize()
		}
		n.y = ny
	}
	return n
}

// YNeighbor returns the adjacent tile in the +Y direction, clamped to Y's
// initialSize, doubling and clamping the X extent when the current range
// was itself produced by a split along Y (see XNeighbor).
func (r KdRange2d[T]) YNeighbor() KdRange2d[T] {
	n := r

	if r.wasSplitOn == AxisY {
		nx := r.x
		nx.end = r.x.Begin() + r.x.Size()*2
		if nx.end > r.x.InitialSize() {
			nx.end = r.x.InitialSize()
		}
		n.x = nx
	}

	ny := r.y
	ny.begin = r.y.End()
	ny.end = r.y.End() + r.y.Size()
	if ny.end > r.y.InitialSize() {
		ny.end = r.y.InitialSize()
	}
	n.y = ny
	return n
}
