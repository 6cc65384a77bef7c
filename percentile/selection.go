package percentile

import (
	"math/bits"
	"slices"
	"sort"
)

// selector finds exact order statistics in a candidates buffer, in place.
// Every rank it has placed splits the buffer: elements before it are not
// greater and elements after it are not smaller. Later queries only
// partition the gap between the nearest placed ranks, so ascending queries
// work on a shrinking suffix.
type selector struct {
	c      *candidates
	placed []int
}

func newSelector(c *candidates) *selector {
	return &selector{c: c}
}

// Select moves the element of rank r into position r and returns it.
func (s *selector) Select(r int) float64 {
	i, found := slices.BinarySearch(s.placed, r)
	if !found {
		lo, hi := 0, s.c.Len()
		if i > 0 {
			lo = s.placed[i-1] + 1
		}
		if i < len(s.placed) {
			hi = s.placed[i]
		}
		s.quickselect(lo, hi, r)
		s.placed = slices.Insert(s.placed, i, r)
	}
	return s.c.values[r]
}

// quickselect places rank k within [lo, hi) using three-way partitioning
// around a median-of-three pivot. Past the depth limit the range is sorted,
// bounding the worst case at n log n.
func (s *selector) quickselect(lo, hi, k int) {
	depth := 2 * bits.Len(uint(hi-lo))
	for hi-lo > insertionSortThreshold {
		if depth == 0 {
			sort.Sort(window{c: s.c, lo: lo, hi: hi})
			return
		}
		depth--

		lt, gt := s.partition(lo, hi, s.pivot(lo, hi))
		switch {
		case k < lt:
			hi = lt
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
	s.insertionSort(lo, hi)
}

func (s *selector) pivot(lo, hi int) float64 {
	v := s.c.values
	a, b, c := v[lo], v[lo+(hi-lo)/2], v[hi-1]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
		if a > b {
			b = a
		}
	}
	return b
}

// partition rearranges [lo, hi) into values below pivot, equal to it, and
// above it, returning the first and last index of the equal run.
func (s *selector) partition(lo, hi int, pivot float64) (int, int) {
	lt, i, gt := lo, lo, hi-1
	for i <= gt {
		switch v := s.c.values[i]; {
		case v < pivot:
			s.c.Swap(lt, i)
			lt++
			i++
		case v > pivot:
			s.c.Swap(i, gt)
			gt--
		default:
			i++
		}
	}
	return lt, gt
}

func (s *selector) insertionSort(lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && s.c.values[j] < s.c.values[j-1]; j-- {
			s.c.Swap(j, j-1)
		}
	}
}

// window is the sort.Interface of candidates[lo:hi].
type window struct {
	c      *candidates
	lo, hi int
}

func (w window) Len() int           { return w.hi - w.lo }
func (w window) Less(i, j int) bool { return w.c.Less(w.lo+i, w.lo+j) }
func (w window) Swap(i, j int)      { w.c.Swap(w.lo+i, w.lo+j) }
