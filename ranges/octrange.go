package ranges

// OctRange is the 3D counterpart to QuadRange: every divisible axis is
// halved on each split, producing an oct-tree of up to 8 children.
type OctRange[T Integer] struct {
	x, y, z Range1d[T]
}

func NewOctRange[T Integer](x, y, z Range1d[T]) OctRange[T] {
	return OctRange[T]{x: x, y: y, z: z}
}

func (r OctRange[T]) XRange() Range1d[T] { return r.x }
func (r OctRange[T]) YRange() Range1d[T] { return r.y }
func (r OctRange[T]) ZRange() Range1d[T] { return r.z }

func (r OctRange[T]) IsDivisible() bool {
	return r.x.IsDivisible() || r.y.IsDivisible() || r.z.IsDivisible()
}

func (r OctRange[T]) Empty() bool {
	return r.x.Empty() || r.y.Empty() || r.z.Empty()
}

func (r OctRange[T]) Size() uint64 {
	return uint64(r.x.Size()) * uint64(r.y.Size()) * uint64(r.z.Size())
}

// Split mutates r into the (low-x, low-y, low-z) octant and returns the
// remaining 0 to 7 siblings, one per non-empty combination of the
// divisible axes' two halves. Like QuadRange, OctRange always divides
// each divisible dimension exactly in half (spec.md §4.5), so Split takes
// no Splitter and always uses EvenSplitter internally.
func (r *OctRange[T]) Split() []OctRange[T] {
	xs := []Range1d[T]{r.x}
	if r.x.IsDivisible() {
		right := r.x.Split(EvenSplitter{}) // mutates r.x to its left half
		xs = []Range1d[T]{r.x, right}
	}
	ys := []Range1d[T]{r.y}
	if r.y.IsDivisible() {
		right := r.y.Split(EvenSplitter{})
		ys = []Range1d[T]{r.y, right}
	}
	zs := []Range1d[T]{r.z}
	if r.z.IsDivisible() {
		right := r.z.Split(EvenSplitter{})
		zs = []Range1d[T]{r.z, right}
	}

	var siblings []OctRange[T]
	for zi, zz := range zs {
		for yi, yy := range ys {
			for xi, xx := range xs {
				if xi == 0 && yi == 0 && zi == 0 {
					continue // that's r itself, already mutated above
				}
				siblings = append(siblings, OctRange[T]{x: xx, y: yy, z: zz})
			}
		}
	}
	return siblings
}
