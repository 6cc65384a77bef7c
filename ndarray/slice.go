package ndarray

// Selector either fixes one dimension to Index or iterates all of it.
type Selector struct {
	Fixed bool
	Index int
}

// Slice holds one Selector per dimension. It is built incrementally:
//
//	Slice{}.All().Index(3).All()
type Slice []Selector

// Index appends a selector fixing the next dimension to k.
func (s Slice) Index(k int) Slice {
	return append(s[:len(s):len(s)], Selector{Fixed: true, Index: k})
}

// All appends a selector iterating the whole next dimension.
func (s Slice) All() Slice {
	return append(s[:len(s):len(s)], Selector{})
}

// FrameSlice selects frame f along axis of a rank-dimensional view,
// leaving the other dimensions free.
func FrameSlice(rank, axis, f int) Slice {
	s := make(Slice, 0, rank)
	for d := 0; d < rank; d++ {
		if d == axis {
			s = s.Index(f)
		} else {
			s = s.All()
		}
	}
	return s
}

// FrameCount returns the number of frames along axis, or 1 for axis < 0.
func FrameCount(v View, axis int) int {
	if axis < 0 {
		return 1
	}
	return v.Dims()[axis]
}

// FrameSize returns the element count of one frame along axis.
func FrameSize(v View, axis int) int {
	return Len(v) / FrameCount(v, axis)
}
