package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/percentile"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, percentile.DefaultClips, cfg.Clips)
	assert.Equal(t, percentile.DefaultHistogramBins, cfg.HistogramBins)
	assert.False(t, cfg.TrackLocation)

	// the presets are copied
	cfg.Clips[0] = 0.5
	assert.Equal(t, 0.9, percentile.DefaultClips[0])
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, "clips.json", `{"clips": [0.95, 0.99], "track_location": true}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.95, 0.99}, cfg.Clips)
	assert.Equal(t, percentile.DefaultHistogramBins, cfg.HistogramBins)
	assert.True(t, cfg.TrackLocation)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "clips.yaml", `{}`))
	assert.ErrorContains(t, err, ".json extension")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to stat")

	_, err = Load(writeConfig(t, "broken.json", `{"clips": [0.9`))
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Load(writeConfig(t, "invalid.json", `{"clips": [0.9, 1.5, -0.1], "histogram_bins": -3}`))
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestLoad_AutoBins(t *testing.T) {
	cfg, err := Load(writeConfig(t, "auto.json", `{"histogram_bins": -1}`))
	require.NoError(t, err)
	assert.Equal(t, percentile.AutoBins, cfg.HistogramBins)
}
