// Package config loads the clip presets and histogram defaults used by the
// command-line tool.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/percentile"
	"go.uber.org/multierr"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

type Config struct {
	// Clips are central fractions offered as display clips.
	Clips []float64 `json:"clips,omitempty"`
	// HistogramBins of -1 derives the bin count from the data.
	HistogramBins int  `json:"histogram_bins,omitempty"`
	TrackLocation bool `json:"track_location,omitempty"`
}

func Default() *Config {
	return &Config{
		Clips:         append([]float64(nil), percentile.DefaultClips...),
		HistogramBins: percentile.DefaultHistogramBins,
	}
}

// Load reads a JSON config. Fields omitted from the file keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	for i, clip := range c.Clips {
		if !(clip > 0 && clip <= 1) {
			err = multierr.Append(err, fmt.Errorf("clips[%d] = %v outside (0, 1]: %w", i, clip, common.ErrorInvalidValue))
		}
	}
	if c.HistogramBins <= 0 && c.HistogramBins != percentile.AutoBins {
		err = multierr.Append(err, fmt.Errorf("histogram_bins = %d must be positive or %d: %w",
			c.HistogramBins, percentile.AutoBins, common.ErrorInvalidValue))
	}
	return err
}
