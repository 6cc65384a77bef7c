package percentile

import (
	"math"
	"sort"

	"github.com/uyouii/cube-percentiles/utils"
	"gonum.org/v1/gonum/stat"
)

// normalReferenceBins picks the bin count whose width follows the normal
// reference rule, 3.49 * sigma * n^(-1/3). values is sorted in place.
func normalReferenceBins(values []float64, lower, upper float64) int {
	n := len(values)
	if n < 2 || !(upper > lower) {
		return 1
	}
	sort.Float64s(values)

	sigma := selectSigma(values)
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return 1
	}
	width := scottBinWidthConstant * sigma * math.Pow(float64(n), -1.0/3)
	bins := math.Min(math.Ceil((upper-lower)/width), maxAutoBins)
	return utils.Clamp(int(bins), 1, maxAutoBins)
}

// selectSigma is the smaller of the standard deviation and the normalised
// interquartile range of sorted, falling back to the former when the
// quartiles coincide.
func selectSigma(sorted []float64) float64 {
	q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	iqr := (q75 - q25) / iqrNormalize

	stdDev := stat.StdDev(sorted, nil)

	if iqr > 0 {
		if stdDev < iqr {
			return stdDev
		}
		return iqr
	}
	return stdDev
}
