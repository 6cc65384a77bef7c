// Package units converts intensity values between display units. A conversion
// is a constant multiplier, optionally preceded by a frequency-dependent leg
// applied separately for each spectral frame.
package units

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
	"github.com/uyouii/cube-percentiles/common"
)

// FrameLeg is the frequency-dependent part of a conversion. Forward and
// Inverse must be mutual inverses for any fixed hertz.
type FrameLeg interface {
	Forward(value, hertz float64) float64
	Inverse(value, hertz float64) float64
}

type identityLeg struct{}

func (identityLeg) Forward(value, _ float64) float64 { return value }
func (identityLeg) Inverse(value, _ float64) float64 { return value }

// Converter applies Leg (when frame dependent) and then scales by Multiplier.
type Converter struct {
	Multiplier float64
	Label      string

	frameDependent bool
	leg            FrameLeg
}

// NewConverter returns a converter whose frame leg is the identity.
func NewConverter(multiplier float64, frameDependent bool, label string) (*Converter, error) {
	if err := checkMultiplier(multiplier); err != nil {
		return nil, err
	}
	return &Converter{
		Multiplier:     multiplier,
		Label:          label,
		frameDependent: frameDependent,
		leg:            identityLeg{},
	}, nil
}

// NewFrameConverter returns a frame-dependent converter using leg.
func NewFrameConverter(multiplier float64, leg FrameLeg, label string) (*Converter, error) {
	if err := checkMultiplier(multiplier); err != nil {
		return nil, err
	}
	if leg == nil {
		return nil, fmt.Errorf("frame converter %q without leg: %w", label, common.ErrorInvalidValue)
	}
	return &Converter{
		Multiplier:     multiplier,
		Label:          label,
		frameDependent: true,
		leg:            leg,
	}, nil
}

// the engines select on unscaled values and scale afterwards, which keeps
// the order only for a positive multiplier
func checkMultiplier(multiplier float64) error {
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return fmt.Errorf("multiplier %v must be finite and positive: %w", multiplier, common.ErrorInvalidValue)
	}
	return nil
}

func (c *Converter) FrameDependent() bool {
	return c.frameDependent
}

// FrameConvert applies only the frame leg.
func (c *Converter) FrameConvert(value, hertz float64) float64 {
	if !c.frameDependent {
		return value
	}
	return c.leg.Forward(value, hertz)
}

// FrameConvertInverse undoes only the frame leg.
func (c *Converter) FrameConvertInverse(value, hertz float64) float64 {
	if !c.frameDependent {
		return value
	}
	return c.leg.Inverse(value, hertz)
}

func (c *Converter) Convert(value, hertz float64) float64 {
	return c.FrameConvert(value, hertz) * c.Multiplier
}

func (c *Converter) ConvertInverse(value, hertz float64) float64 {
	return c.FrameConvertInverse(value/c.Multiplier, hertz)
}

// ConvertBatch converts values[i] at hertz[i]. hertz is ignored, and may be
// nil, for a frame-independent converter.
func (c *Converter) ConvertBatch(values, hertz []float64) ([]float64, error) {
	res := make([]float64, len(values))
	if !c.frameDependent {
		if len(values) > 0 {
			f64.Scale(res, values, c.Multiplier)
		}
		return res, nil
	}

	if len(hertz) < len(values) {
		return nil, fmt.Errorf("need %d hertz values to convert %d intensities, got %d: %w",
			len(values), len(values), len(hertz), common.ErrorSizeMismatch)
	}
	for i, v := range values {
		res[i] = c.leg.Forward(v, hertz[i]) * c.Multiplier
	}
	return res, nil
}

func (c *Converter) String() string {
	return fmt.Sprintf("%s (x%v, frameDependent=%v)", c.Label, c.Multiplier, c.frameDependent)
}
