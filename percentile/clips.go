package percentile

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/model"
	"github.com/uyouii/cube-percentiles/ndarray"
)

// ClipsToPercentiles expands every clip value c in (0, 1) into the pair of
// fractions (1-c)/2 and 1-(1-c)/2 it keeps between, sorted ascending.
func ClipsToPercentiles(clips []float64) []float64 {
	percentiles := make([]float64, 0, 2*len(clips))
	for _, c := range clips {
		if c > 0 && c < 1 {
			lower := (1 - c) / 2
			percentiles = append(percentiles, lower, 1-lower)
		}
	}
	slices.Sort(percentiles)
	return percentiles
}

// ClipIndex returns the index of value in clips, or -1.
func ClipIndex(clips []float64, value float64) int {
	for i, c := range clips {
		if math.Abs(value-c) < ClipErrorMargin {
			return i
		}
	}
	return -1
}

// ComputeClipBounds returns the intensities bounding the central fraction
// clip of the finite samples of view.
func ComputeClipBounds(ctx context.Context, view ndarray.View, clip float64,
	opts ...Option) (model.Clip, error) {
	bounds, err := ComputeClipBoundsSet(ctx, view, []float64{clip}, opts...)
	if err != nil {
		return model.Clip{}, err
	}
	return bounds[0], nil
}

// ComputeClipBoundsSet computes the bounds of every clip with a single
// collection of the samples of view.
func ComputeClipBoundsSet(ctx context.Context, view ndarray.View, clips []float64,
	opts ...Option) ([]model.Clip, error) {
	fractions := make([]float64, 0, 2*len(clips))
	for _, clip := range clips {
		if !(clip >= 0 && clip <= 1) {
			return nil, fmt.Errorf("clip %v outside [0, 1]: %w", clip, common.ErrorPrecondition)
		}
		lower := (1 - clip) / 2
		fractions = append(fractions, lower, 1-lower)
	}

	// ascending fractions let the selection reuse earlier partitions
	order := make([]int, len(fractions))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return cmp.Compare(fractions[a], fractions[b]) })
	sorted := make([]float64, len(fractions))
	for i, j := range order {
		sorted[i] = fractions[j]
	}

	res, err := ComputeClips(ctx, view, sorted, opts...)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(fractions))
	for i, j := range order {
		values[j] = res[i].Value
	}

	bounds := make([]model.Clip, len(clips))
	for i := range bounds {
		bounds[i] = model.Clip{Lower: values[2*i], Upper: values[2*i+1]}
	}
	return bounds, nil
}
