package percentile

import (
	"fmt"

	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/units"
	"go.uber.org/multierr"
)

type Option func(*settings)

// WithSpectralAxis names the dimension holding one frame per frequency.
// A negative axis means the view has no spectral axis.
func WithSpectralAxis(axis int) Option {
	return func(s *settings) {
		if axis < 0 {
			axis = NoSpectralAxis
		}
		s.spectralIndex = axis
	}
}

// WithConverter converts intensities with c. hertz holds one frequency per
// frame of the spectral axis, or at least one frequency when there is no
// spectral axis; it is only read by frame-dependent converters.
func WithConverter(c *units.Converter, hertz []float64) Option {
	return func(s *settings) {
		s.converter = c
		s.hertz = hertz
	}
}

type settings struct {
	spectralIndex int
	converter     *units.Converter
	hertz         []float64
}

func newSettings(opts []Option) *settings {
	s := &settings{spectralIndex: NoSpectralAxis}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) frameDependent() bool {
	return s.converter != nil && s.converter.FrameDependent()
}

// perFrame reports whether the frame leg must be applied frame by frame.
func (s *settings) perFrame() bool {
	return s.frameDependent() && s.spectralIndex >= 0
}

// frameHertz returns the frequency used for frame f, which the single-frame
// case always takes from the first table entry.
func (s *settings) frameHertz(f int) float64 {
	if !s.frameDependent() {
		return 0
	}
	if s.spectralIndex < 0 {
		return s.hertz[0]
	}
	return s.hertz[f]
}

func (s *settings) validate(view ndarray.View) error {
	if view == nil {
		return fmt.Errorf("nil view: %w", common.ErrorInvalidValue)
	}
	dims := view.Dims()
	if s.spectralIndex >= len(dims) {
		return fmt.Errorf("spectral axis %d out of range for %d dims: %w", s.spectralIndex, len(dims), common.ErrorInvalidValue)
	}
	if !s.frameDependent() {
		return nil
	}
	if s.spectralIndex < 0 {
		if len(s.hertz) == 0 {
			return fmt.Errorf("frame-dependent conversion needs a frequency: %w", common.ErrorSizeMismatch)
		}
		return nil
	}
	if frames := dims[s.spectralIndex]; len(s.hertz) != frames {
		return fmt.Errorf("%d frequencies for %d frames: %w", len(s.hertz), frames, common.ErrorSizeMismatch)
	}
	return nil
}

func validateFractions(fractions []float64) error {
	var err error
	for i, q := range fractions {
		if !(q >= 0 && q <= 1) {
			err = multierr.Append(err, fmt.Errorf("fraction %d = %v outside [0, 1]: %w", i, q, common.ErrorPrecondition))
		}
	}
	return err
}
