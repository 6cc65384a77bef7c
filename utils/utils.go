package utils

import "math"

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func Product(dims []int) int {
	res := 1
	for _, d := range dims {
		res *= d
	}
	return res
}

func Clamp(v, lower, upper int) int {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
