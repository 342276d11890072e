package ranges

import "github.com/go-foundations/microscheduler"

// KdRange3d is the 3D counterpart to KdRange2d: derivative of TBB's
// blocked_range3d. Splits occur along whichever of x/y/z is relatively
// largest.
type KdRange3d[T Integer] struct {
	x, y, z    Range1d[T]
	wasSplitOn SubRangeIndex
}

func NewKdRange3d[T Integer](x, y, z Range1d[T]) KdRange3d[T] {
	return KdRange3d[T]{x: x, y: y, z: z, wasSplitOn: kdSplitNone}
}

func (r KdRange3d[T]) XRange() Range1d[T] { return r.x }
func (r KdRange3d[T]) YRange() Range1d[T] { return r.y }
func (r KdRange3d[T]) ZRange() Range1d[T] { return r.z }

func (r KdRange3d[T]) IsDivisible() bool {
	return r.x.IsDivisible() || r.y.IsDivisible() || r.z.IsDivisible()
}

func (r KdRange3d[T]) Empty() bool {
	return r.x.Empty() || r.y.Empty() || r.z.Empty()
}

func (r KdRange3d[T]) Size() uint64 {
	return uint64(r.x.Size()) * uint64(r.y.Size()) * uint64(r.z.Size())
}

// relativelyBigger reports whether a is relatively larger than b, weighted
// by each other's minimum size, matching KdRange3d.h's pairwise test.
func relativelyBigger[T Integer](aSize, aMinSize, bSize, bMinSize T) bool {
	return int64(aSize)*int64(bMinSize) >= int64(bSize)*int64(aMinSize)
}

// Split picks the largest-relative axis among the divisible ones and
// splits it, mutating r into the remaining half and returning the new
// sibling.
func (r *KdRange3d[T]) Split(s Splitter) KdRange3d[T] {
	if !r.IsDivisible() {
		microscheduler.Violate("KdRange3d.Split", "range is not divisible along any axis")
	}

	axis := AxisX
	switch {
	case r.x.IsDivisible() && relativelyBigger(r.x.Size(), r.x.MinSize(), r.y.Size(), r.y.MinSize()) &&
		relativelyBigger(r.x.Size(), r.x.MinSize(), r.z.Size(), r.z.MinSize()):
		axis = AxisX
	case r.y.IsDivisible() && relativelyBigger(r.y.Size(), r.y.MinSize(), r.z.Size(), r.z.MinSize()):
		axis = AxisY
	case r.z.IsDivisible():
		axis = AxisZ
	case r.y.IsDivisible():
		axis = AxisY
	case r.x.IsDivisible():
		axis = AxisX
	}

	sibling := *r
	switch axis {
	case AxisX:
		sibling.x = r.x.Split(s)
	case AxisY:
		sibling.y = r.y.Split(s)
	case AxisZ:
		sibling.z = r.z.Split(s)
	}
	r.wasSplitOn, sibling.wasSplitOn = axis, axis
	return sibling
}

// XNeighbor returns the adjacent tile in the +X direction, clamped to X's
// initialSize. The original KdRange3d never implemented neighbor methods
// at all (only KdRange2d's xNeighbor/yNeighbor did); this generalizes
// KdRange2d's rule to three axes: when the current range was produced by
// a split along X, both orthogonal axes (Y and Z) are doubled and clamped
// to their own initialSize, since both represent a merged sibling's
// footprint along the split axis.
func (r KdRange3d[T]) XNeighbor() KdRange3d[T] {
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

		nz := r.z
		nz.end = r.z.Begin() + r.z.Size()*2
		if nz.end > r.z.InitialSize() {
			nz.end = r.z.InitialSize()
		}
		n.z = nz
	}
	return n
}

// YNeighbor is XNeighbor's analogue along Y; see XNeighbor.
func (r KdRange3d[T]) YNeighbor() KdRange3d[T] {
	n := r

	if r.wasSplitOn == AxisY {
		nx := r.x
		nx.end = r.x.Begin() + r.x.Size()*2
		if nx.end > r.x.InitialSize() {
			nx.end = r.x.InitialSize()
		}
		n.x = nx

		nz := r.z
		nz.end = r.z.Begin() + r.z.Size()*2
		if nz.end > r.z.InitialSize() {
			nz.end = r.z.InitialSize()
		}
		n.z = nz
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

// ZNeighbor is XNeighbor's analogue along Z; see XNeighbor.
func (r KdRange3d[T]) ZNeighbor() KdRange3d[T] {
	n := r

	if r.wasSplitOn == AxisZ {
		nx := r.x
		nx.end = r.x.Begin() + r.x.Size()*2
		if nx.end > r.x.InitialSize() {
			nx.end = r.x.InitialSize()
		}
		n.x = nx

		ny := r.y
		ny.end = r.y.Begin() + r.y.Size()*2
		if ny.end > r.y.InitialSize() {
			ny.end = r.y.InitialSize()
		}
		n.y = ny
	}

	nz := r.z
	nz.begin = r.z.End()
	nz.end = r.z.End() + r.z.Size()
	if nz.end > r.z.InitialSize() {
		nz.end = r.z.InitialSize()
	}
	n.z = nz
	return n
}
