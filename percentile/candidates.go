package percentile

import (
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/utils"
)

// candidates is the working buffer of one call: the finite samples of a
// view and, when locations are tracked, their traversal ordinals.
type candidates struct {
	values  []float64
	origins []int
}

func (c *candidates) Len() int { return len(c.values) }

func (c *candidates) Less(i, j int) bool { return c.values[i] < c.values[j] }

func (c *candidates) Swap(i, j int) {
	c.values[i], c.values[j] = c.values[j], c.values[i]
	if c.origins != nil {
		c.origins[i], c.origins[j] = c.origins[j], c.origins[i]
	}
}

// visitFrames calls fn with every frame of view along axis, or once with the
// whole view when axis is negative.
func visitFrames(view ndarray.View, axis int, fn func(f int, frame ndarray.View)) error {
	if axis < 0 {
		fn(0, view)
		return nil
	}
	rank := len(view.Dims())
	for f := 0; f < ndarray.FrameCount(view, axis); f++ {
		frame, err := view.SubView(ndarray.FrameSlice(rank, axis, f))
		if err != nil {
			return err
		}
		fn(f, frame)
	}
	return nil
}

// collectCandidates copies the finite samples of view into a fresh buffer.
// The frame leg of a frame-dependent converter is applied per frame when
// there is a spectral axis; scaling by the multiplier is left to the caller.
// It also returns the frame size used to split origin ordinals.
func collectCandidates(view ndarray.View, s *settings, track bool) (*candidates, int, error) {
	n := ndarray.Len(view)
	c := &candidates{values: make([]float64, 0, n)}
	if track {
		c.origins = make([]int, 0, n)
	}

	axis := NoSpectralAxis
	if s.spectralIndex >= 0 && (s.perFrame() || track) {
		axis = s.spectralIndex
	}
	frameSize := ndarray.FrameSize(view, axis)

	applyLeg := s.perFrame()
	index := 0
	err := visitFrames(view, axis, func(f int, frame ndarray.View) {
		hertz := s.frameHertz(f)
		frame.ForEach(func(v float64) {
			if utils.IsFinite(v) {
				if applyLeg {
					v = s.converter.FrameConvert(v, hertz)
				}
				c.values = append(c.values, v)
				if track {
					c.origins = append(c.origins, index)
				}
			}
			index++
		})
	})
	if err != nil {
		return nil, 0, err
	}
	return c, frameSize, nil
}
