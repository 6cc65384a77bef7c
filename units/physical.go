package units

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/uyouii/cube-percentiles/common"
)

const (
	SpeedOfLight    = 299792458.0      // m/s
	BoltzmannConst  = 1.380649e-23     // J/K
	JanskyInSI      = 1e-26            // W m^-2 Hz^-1
	ArcsecInRadians = math.Pi / 648000 // 180 * 3600
)

const (
	JanskyPerBeam = "Jy/beam"
	JanskyPerSr   = "Jy/sr"
	Jansky        = "Jy"
	Kelvin        = "K"
)

var baseUnits = []string{JanskyPerBeam, JanskyPerSr, Jansky, Kelvin}

var prefixes = map[string]float64{
	"":  1,
	"G": 1e9,
	"M": 1e6,
	"k": 1e3,
	"m": 1e-3,
	"u": 1e-6,
	"µ": 1e-6,
	"n": 1e-9,
}

// SplitUnit separates an SI prefix from one of the known base units,
// e.g. "mJy/beam" -> (1e-3, "Jy/beam").
func SplitUnit(unit string) (float64, string, error) {
	unit = strings.TrimSpace(unit)
	bases := append([]string(nil), baseUnits...)
	sort.Slice(bases, func(i, j int) bool { return len(bases[i]) > len(bases[j]) })

	for _, base := range bases {
		if !strings.HasSuffix(unit, base) {
			continue
		}
		if factor, ok := prefixes[strings.TrimSuffix(unit, base)]; ok {
			return factor, base, nil
		}
	}
	return 0, "", fmt.Errorf("unknown unit %q: %w", unit, common.ErrorInvalidValue)
}

// NewPrefixConverter rescales between two units sharing a base unit.
func NewPrefixConverter(from, to string) (*Converter, error) {
	fromFactor, fromBase, err := SplitUnit(from)
	if err != nil {
		return nil, err
	}
	toFactor, toBase, err := SplitUnit(to)
	if err != nil {
		return nil, err
	}
	if fromBase != toBase {
		return nil, fmt.Errorf("cannot rescale %q to %q: %w", from, to, common.ErrorInvalidValue)
	}
	return NewConverter(fromFactor/toFactor, false, to)
}

// BrightnessTemperature converts a flux density per beam in Jy/beam to a
// Rayleigh-Jeans brightness temperature in K. Beam axes are FWHM in arcsec.
type BrightnessTemperature struct {
	BeamMajor float64
	BeamMinor float64
}

func (b BrightnessTemperature) beamSolidAngle() float64 {
	bmaj := b.BeamMajor * ArcsecInRadians
	bmin := b.BeamMinor * ArcsecInRadians
	return math.Pi * bmaj * bmin / (4 * math.Ln2)
}

func (b BrightnessTemperature) factor() float64 {
	return JanskyInSI * SpeedOfLight * SpeedOfLight / (2 * BoltzmannConst * b.beamSolidAngle())
}

func (b BrightnessTemperature) Forward(value, hertz float64) float64 {
	return value * b.factor() / (hertz * hertz)
}

func (b BrightnessTemperature) Inverse(value, hertz float64) float64 {
	return value * hertz * hertz / b.factor()
}

type invertedLeg struct {
	leg FrameLeg
}

// Inverted swaps the directions of leg.
func Inverted(leg FrameLeg) FrameLeg {
	return invertedLeg{leg: leg}
}

func (l invertedLeg) Forward(value, hertz float64) float64 { return l.leg.Inverse(value, hertz) }
func (l invertedLeg) Inverse(value, hertz float64) float64 { return l.leg.Forward(value, hertz) }

func checkBeam(beam BrightnessTemperature) error {
	if !(beam.BeamMajor > 0) || !(beam.BeamMinor > 0) {
		return fmt.Errorf("beam %vx%v arcsec must be positive: %w", beam.BeamMajor, beam.BeamMinor, common.ErrorInvalidValue)
	}
	return nil
}

// NewKelvinConverter converts from a prefixed Jy/beam unit to a prefixed K unit.
func NewKelvinConverter(from, to string, beam BrightnessTemperature) (*Converter, error) {
	return newBeamConverter(from, JanskyPerBeam, to, Kelvin, beam, beam)
}

// NewFluxDensityConverter converts from a prefixed K unit to a prefixed Jy/beam unit.
func NewFluxDensityConverter(from, to string, beam BrightnessTemperature) (*Converter, error) {
	return newBeamConverter(from, Kelvin, to, JanskyPerBeam, beam, Inverted(beam))
}

// the legs are linear in value so the prefixes fold into the multiplier
func newBeamConverter(from, wantFrom, to, wantTo string, beam BrightnessTemperature, leg FrameLeg) (*Converter, error) {
	if err := checkBeam(beam); err != nil {
		return nil, err
	}
	fromFactor, fromBase, err := SplitUnit(from)
	if err != nil {
		return nil, err
	}
	toFactor, toBase, err := SplitUnit(to)
	if err != nil {
		return nil, err
	}
	if fromBase != wantFrom || toBase != wantTo {
		return nil, fmt.Errorf("cannot convert %q to %q with a beam: %w", from, to, common.ErrorInvalidValue)
	}
	return NewFrameConverter(fromFactor/toFactor, leg, to)
}
