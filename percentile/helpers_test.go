package percentile

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/units"
	"github.com/uyouii/cube-percentiles/utils"
	"go.uber.org/zap/zaptest"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return utils.WithLogger(context.Background(), zaptest.NewLogger(t))
}

func mustDense(t *testing.T, data []float64, dims ...int) *ndarray.Dense {
	t.Helper()
	if len(dims) == 0 {
		dims = []int{len(data)}
	}
	view, err := ndarray.NewDense(data, dims...)
	require.NoError(t, err)
	return view
}

func mustConverter(t *testing.T, multiplier float64, frameDependent bool) *units.Converter {
	t.Helper()
	c, err := units.NewConverter(multiplier, frameDependent, "test")
	require.NoError(t, err)
	return c
}

// hertzLeg scales a value by its frequency.
type hertzLeg struct{}

func (hertzLeg) Forward(value, hertz float64) float64 { return value * hertz }
func (hertzLeg) Inverse(value, hertz float64) float64 { return value / hertz }

func mustFrameConverter(t *testing.T, multiplier float64, leg units.FrameLeg) *units.Converter {
	t.Helper()
	c, err := units.NewFrameConverter(multiplier, leg, "test")
	require.NoError(t, err)
	return c
}

func oneToTen() []float64 {
	return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

// distinctSamples returns n shuffled values with no ties.
func distinctSamples(rng *rand.Rand, n int) []float64 {
	res := make([]float64, n)
	for i, p := range rng.Perm(n) {
		res[i] = float64(p) + rng.Float64()*0.5
	}
	return res
}

func finite(data []float64) []float64 {
	res := []float64{}
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}

// panicView fails every traversal.
type panicView struct{}

func (panicView) Dims() []int { return []int{3} }

func (panicView) ForEach(func(v float64)) { panic("broken storage") }

func (panicView) SubView(ndarray.Slice) (ndarray.View, error) { return panicView{}, nil }
