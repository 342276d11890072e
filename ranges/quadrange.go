package ranges

// QuadRange is a 2D range that splits both axes at once when both are
// divisible, producing a quad-tree. Unlike KdRange2d it never chooses a
// single axis to halve.
//
// The scheduler this is modeled on had a three-way if/else-if chain here
// whose final branch (both axes divisible) was unreachable dead code
// identical to an earlier branch, so it always behaved as if only one
// axis ever split. Split below replaces that with the explicit behavior
// table the dead branch was trying to express: both divisible yields 3
// siblings, exactly one divisible yields 1, neither yields none.
type QuadRange[T Integer] struct {
	x, y Range1d[T]
}

func NewQuadRange[T Integer](x, y Range1d[T]) QuadRange[T] {
	return QuadRange[T]{x: x, y: y}
}

func (r QuadRange[T]) XRange() Range1d[T] { return r.x }
func (r QuadRange[T]) YRange() Range1d[T] { return r.y }

func (r QuadRange[T]) IsDivisible() bool {
	return r.x.IsDivisible() || r.y.IsDivisible()
}

func (r QuadRange[T]) Empty() bool {
	return r.x.Empty() || r.y.Empty()
}

func (r QuadRange[T]) Size() uint64 {
	return uint64(r.x.Size()) * uint64(r.y.Size())
}

// Split mutates r into the (low-x, low-y) quadrant and returns the
// remaining 0, 1, or 3 siblings. Unlike KdRange2d, QuadRange always
// divides each divisible dimension exactly in half (spec.md §4.5) — the
// splitter is not a caller choice here, so Split takes none and always
// uses EvenSplitter internally.
func (r *QuadRange[T]) Split() []QuadRange[T] {
	splitX := r.x.IsDivisible()
	splitY := r.y.IsDivisible()

	switch {
	case splitX && splitY:
		rightX := r.x.Split(EvenSplitter{})
		rightY := r.y.Split(EvenSplitter{})
		return []QuadRange[T]{
			{x: r.x, y: rightY},
			{x: rightX, y: r.y},
			{x: rightX, y: rightY},
		}
	case splitX:
		rightX := r.x.Split(EvenSplitter{})
		return []QuadRange[T]{{x: rightX, y: r.y}}
	case splitY:
		rightY := r.y.Split(EvenSplitter{})
		return []QuadRange[T]{{x: r.x, y: rightY}}
	default:
		return nil
	}
}
