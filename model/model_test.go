package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipResult(t *testing.T) {
	res := ClipResult{
		{Quantile: 0.5, Value: 3},
		{Quantile: 0.9, Value: 8, Location: &Location{Index: 7, Frame: 1, Pixel: 2}},
		{Quantile: 0.5, Value: 3},
	}

	assert.Equal(t, []float64{3, 8, 3}, res.Values())

	qv, ok := res.Get(0.9)
	require.True(t, ok)
	assert.Equal(t, 8.0, qv.Value)
	assert.Equal(t, 1, qv.Location.Frame)

	qv, ok = res.Get(0.5)
	require.True(t, ok)
	assert.Same(t, &res[0], qv)

	_, ok = res.Get(0.1)
	assert.False(t, ok)

	assert.Equal(t, "clipCount: 3, values: [3 8 3]", res.DebugString())
}

func TestQuantileValue_JSON(t *testing.T) {
	data, err := json.Marshal(ClipResult{
		{Quantile: 0.5, Value: 1},
		{Quantile: 1, Value: 2, Location: &Location{Index: 4, Pixel: 4}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"q": 0.5, "v": 1},
		{"q": 1, "v": 2, "loc": {"index": 4, "frame": 0, "pixel": 4}}
	]`, string(data))
}

func TestCdfResult_Fractions(t *testing.T) {
	res := CdfResult{{X: 1, Value: 0.25}, {X: -1, Value: 0}}
	assert.Equal(t, []float64{0.25, 0}, res.Fractions())
	assert.Equal(t, "[1, 2.5]", Clip{Lower: 1, Upper: 2.5}.String())
}
