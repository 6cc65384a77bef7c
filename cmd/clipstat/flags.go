package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/uyouii/cube-percentiles/units"
)

// parseFloats parses a comma-separated list; an empty string gives nil.
func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	res := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %v", part, err)
		}
		res = append(res, v)
	}
	return res, nil
}

// parseBeam parses "major,minor" beam FWHM in arcsec.
func parseBeam(s string) (units.BrightnessTemperature, error) {
	values, err := parseFloats(s)
	if err != nil {
		return units.BrightnessTemperature{}, err
	}
	if len(values) != 2 {
		return units.BrightnessTemperature{}, fmt.Errorf("beam must be \"major,minor\", got %q", s)
	}
	return units.BrightnessTemperature{BeamMajor: values[0], BeamMinor: values[1]}, nil
}

// buildConverter picks the converter for displaying fromUnit as toUnit.
// A beam selects a brightness-temperature conversion.
func buildConverter(fromUnit, toUnit, beam string) (*units.Converter, error) {
	if toUnit == "" || toUnit == fromUnit {
		return nil, nil
	}
	if beam == "" {
		return units.NewPrefixConverter(fromUnit, toUnit)
	}
	b, err := parseBeam(beam)
	if err != nil {
		return nil, err
	}
	_, base, err := units.SplitUnit(toUnit)
	if err != nil {
		return nil, err
	}
	if base == units.Kelvin {
		return units.NewKelvinConverter(fromUnit, toUnit, b)
	}
	return units.NewFluxDensityConverter(fromUnit, toUnit, b)
}
