package percentile

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/model"
	"github.com/uyouii/cube-percentiles/units"
	"gonum.org/v1/gonum/stat"
)

func TestComputeCdf_OrderAndRepeatsPreserved(t *testing.T) {
	ctx := testContext(t)
	intensities := []float64{5, 1, 5, 100, -100, 9.5}
	res, err := ComputeCdf(ctx, mustDense(t, oneToTen()), intensities)
	require.NoError(t, err)

	want := model.CdfResult{{X: 5, Value: 0.5}, {X: 1, Value: 0.1}, {X: 5, Value: 0.5},
		{X: 100, Value: 1}, {X: -100, Value: 0}, {X: 9.5, Value: 0.9}}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("ComputeCdf mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeCdf_NonFiniteIgnored(t *testing.T) {
	ctx := testContext(t)
	data := []float64{math.Inf(1), 1, 2, math.NaN(), 3, 4, math.Inf(-1)}
	res, err := ComputeCdf(ctx, mustDense(t, data), []float64{2, 1e300, math.Inf(1), math.Inf(-1), math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 1, 0, 0}, res.Fractions())
}

func TestComputeCdf_EmptyDatasetGivesZeros(t *testing.T) {
	ctx := testContext(t)
	view := mustDense(t, []float64{math.NaN(), math.Inf(1)})
	intensities := []float64{-1, 0, 1, math.Inf(1)}

	res, err := ComputeCdf(ctx, view, intensities)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, res.Fractions())

	res, err = ComputeCdf(ctx, view, nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestComputeCdf_MatchesReference(t *testing.T) {
	ctx := testContext(t)
	rng := rand.New(rand.NewSource(5))
	data := make([]float64, 500)
	for i := range data {
		data[i] = math.Round(rng.NormFloat64() * 10)
	}
	sorted := append([]float64(nil), data...)
	slices.Sort(sorted)

	intensities := make([]float64, 40)
	for i := range intensities {
		intensities[i] = rng.NormFloat64() * 15
	}
	intensities = append(intensities, sorted[0], sorted[len(sorted)-1], 0)

	res, err := ComputeCdf(ctx, mustDense(t, data, 20, 25), intensities)
	require.NoError(t, err)
	for i, x := range intensities {
		assert.InDelta(t, stat.CDF(x, stat.Empirical, sorted, nil), res[i].Value, 1e-12, "x=%v", x)
	}
}

func TestComputeCdf_Converters(t *testing.T) {
	ctx := testContext(t)

	t.Run("frame independent", func(t *testing.T) {
		res, err := ComputeCdf(ctx, mustDense(t, oneToTen()), []float64{10, 2},
			WithConverter(mustConverter(t, 2, false), nil))
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.1}, res.Fractions())
	})

	t.Run("frame dependent per frame", func(t *testing.T) {
		view := mustDense(t, []float64{1, 2, 3, 1, 2, 3}, 2, 3)
		res, err := ComputeCdf(ctx, view, []float64{3, 20},
			WithSpectralAxis(0), WithConverter(mustFrameConverter(t, 1, hertzLeg{}), []float64{1, 10}))
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{3.0 / 6, 5.0 / 6}, res.Fractions(), 1e-12)
	})

	t.Run("frame dependent single frame", func(t *testing.T) {
		view := mustDense(t, []float64{4, 1, 3, 2})
		res, err := ComputeCdf(ctx, view, []float64{60, 5},
			WithConverter(mustFrameConverter(t, 3, hertzLeg{}), []float64{10}))
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0}, res.Fractions())
	})

	t.Run("size mismatch", func(t *testing.T) {
		view := mustDense(t, []float64{1, 2, 3, 1, 2, 3}, 2, 3)
		_, err := ComputeCdf(ctx, view, []float64{3},
			WithSpectralAxis(0), WithConverter(mustFrameConverter(t, 1, hertzLeg{}), []float64{1}))
		assert.ErrorIs(t, err, common.ErrorSizeMismatch)
	})
}

func TestComputeCdf_RecoversPanic(t *testing.T) {
	ctx := testContext(t)
	_, err := ComputeCdf(ctx, panicView{}, []float64{1})
	assert.Error(t, err)
}

func TestClipsCdfRoundTrip(t *testing.T) {
	ctx := testContext(t)
	rng := rand.New(rand.NewSource(13))
	fractions := []float64{0, 0.01, 0.1, 0.25, 0.5, 0.75, 0.9, 0.99, 1}

	kelvin, err := units.NewKelvinConverter("Jy/beam", "mK", units.BrightnessTemperature{BeamMajor: 3, BeamMinor: 2})
	require.NoError(t, err)
	hertz := []float64{1.40e9, 1.41e9, 1.42e9, 1.43e9}

	tests := []struct {
		name string
		opts []Option
	}{
		{"no converter", nil},
		{"scaled", []Option{WithConverter(mustConverter(t, 2, false), nil)}},
		{"identity leg per frame", []Option{WithSpectralAxis(0), WithConverter(mustConverter(t, 4, true), hertz)}},
		{"brightness temperature per frame", []Option{WithSpectralAxis(0), WithConverter(kelvin, hertz)}},
		{"brightness temperature single frame", []Option{WithConverter(kelvin, hertz[:1])}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := distinctSamples(rng, 400)
			for i := 0; i < len(data); i += 37 {
				data[i] = math.NaN()
			}
			n := len(finite(data))
			view := mustDense(t, data, 4, 100)

			clips, err := ComputeClips(ctx, view, fractions, tt.opts...)
			require.NoError(t, err)
			cdf, err := ComputeCdf(ctx, view, clips.Values(), tt.opts...)
			require.NoError(t, err)

			assert.Empty(t, cmp.Diff(fractions, cdf.Fractions(), cmpopts.EquateApprox(0, 1/float64(n)+1e-12)))
		})
	}
}
