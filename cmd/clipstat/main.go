// Command clipstat prints display clips, cumulative fractions and a
// histogram of a FITS image cube as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/uyouii/cube-percentiles/config"
	"github.com/uyouii/cube-percentiles/fits"
	"github.com/uyouii/cube-percentiles/model"
	"github.com/uyouii/cube-percentiles/percentile"
	"github.com/uyouii/cube-percentiles/utils"
	"go.uber.org/zap"
)

var (
	fitsPath    = flag.String("fits", "", "FITS file to read (required)")
	configPath  = flag.String("config", "", "JSON config file")
	fractions   = flag.String("fractions", "", "comma-separated fractions; defaults to the configured clips")
	intensities = flag.String("intensities", "", "comma-separated intensities to locate in the distribution")
	toUnit      = flag.String("unit", "", "display unit, e.g. mJy/beam or K")
	beam        = flag.String("beam", "", "beam FWHM \"major,minor\" in arcsec for Jy/beam <-> K")
	histogram   = flag.Bool("histogram", false, "include a histogram")
	location    = flag.Bool("location", false, "report where each clip sample was found")
)

type report struct {
	File          string           `json:"file"`
	Dims          []int            `json:"dims"`
	SpectralIndex int              `json:"spectral_index"`
	Unit          string           `json:"unit"`
	Clips         model.ClipResult `json:"clips,omitempty"`
	Bounds        []clipBounds     `json:"bounds,omitempty"`
	Cdf           model.CdfResult  `json:"cdf,omitempty"`
	Histogram     *model.Histogram `json:"histogram,omitempty"`
}

// clipBounds is one configured clip and the intensities it keeps between.
type clipBounds struct {
	Clip  float64 `json:"clip"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func main() {
	flag.Parse()
	ctx := context.Background()
	logger := utils.GetLogger(ctx)
	defer logger.Sync()

	if err := run(ctx, os.Stdout); err != nil {
		logger.Error("clipstat failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer) error {
	if *fitsPath == "" {
		return fmt.Errorf("-fits is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	cube, err := fits.Open(*fitsPath)
	if err != nil {
		return err
	}
	opts := cube.Options()

	converter, err := buildConverter(cube.Unit, *toUnit, *beam)
	if err != nil {
		return err
	}
	unit := cube.Unit
	if converter != nil {
		opts = append(opts, percentile.WithConverter(converter, cube.Hertz))
		unit = converter.Label
	}

	out := report{
		File:          *fitsPath,
		Dims:          cube.Dims,
		SpectralIndex: cube.SpectralIndex,
		Unit:          unit,
	}

	qs, err := parseFloats(*fractions)
	if err != nil {
		return err
	}
	if len(qs) > 0 {
		compute := percentile.ComputeClips
		if *location || cfg.TrackLocation {
			compute = percentile.ComputeClipsWithLocation
		}
		if out.Clips, err = compute(ctx, cube.View, qs, opts...); err != nil {
			return err
		}
	} else {
		bounds, err := percentile.ComputeClipBoundsSet(ctx, cube.View, cfg.Clips, opts...)
		if err != nil {
			return err
		}
		out.Bounds = make([]clipBounds, len(bounds))
		for i, b := range bounds {
			out.Bounds[i] = clipBounds{Clip: cfg.Clips[i], Lower: b.Lower, Upper: b.Upper}
		}
	}

	xs, err := parseFloats(*intensities)
	if err != nil {
		return err
	}
	if len(xs) > 0 {
		if out.Cdf, err = percentile.ComputeCdf(ctx, cube.View, xs, opts...); err != nil {
			return err
		}
	}

	if *histogram {
		params := percentile.DefaultHistogramParams()
		params.Bins = cfg.HistogramBins
		if out.Histogram, err = percentile.ComputeHistogram(ctx, cube.View, params, opts...); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
