// Package fits loads the primary image of a FITS file as an ndarray view,
// together with the frequency of every spectral channel.
package fits

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/percentile"
)

// Cube is a FITS image in row-major order: Dims are the FITS axes reversed,
// so NAXIS1 varies fastest.
type Cube struct {
	View *ndarray.Dense
	Dims []int

	// SpectralIndex is the dimension of the FREQ axis, or percentile.NoSpectralAxis.
	SpectralIndex int
	// Hertz holds one frequency per channel of the spectral axis.
	Hertz []float64
	// Unit is the BUNIT keyword.
	Unit string
}

// Options returns the percentile options describing the layout of the cube.
func (c *Cube) Options() []percentile.Option {
	return []percentile.Option{percentile.WithSpectralAxis(c.SpectralIndex)}
}

func Open(path string) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Cube, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}
	defer f.Close()

	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("primary hdu is not an image: %w", common.ErrorInvalidValue)
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) == 0 {
		return nil, fmt.Errorf("primary image has no axes: %w", common.ErrorInvalidValue)
	}

	data, err := readPixels(img, hdr)
	if err != nil {
		return nil, err
	}

	dims := make([]int, len(axes))
	for i, n := range axes {
		dims[len(axes)-1-i] = n
	}
	view, err := ndarray.NewDense(data, dims...)
	if err != nil {
		return nil, err
	}

	cube := &Cube{
		View:          view,
		Dims:          dims,
		SpectralIndex: percentile.NoSpectralAxis,
		Unit:          strings.TrimSpace(cardString(hdr, "BUNIT")),
	}
	for i, n := range axes {
		axis := i + 1
		ctype := strings.ToUpper(strings.TrimSpace(cardString(hdr, fmt.Sprintf("CTYPE%d", axis))))
		if !strings.HasPrefix(ctype, "FREQ") {
			continue
		}
		cube.SpectralIndex = len(axes) - 1 - i
		cube.Hertz = channelFrequencies(hdr, axis, n)
		break
	}
	return cube, nil
}

// channelFrequencies evaluates the linear WCS of axis at every channel;
// FITS pixel coordinates start at 1.
func channelFrequencies(hdr *fitsio.Header, axis, n int) []float64 {
	crval, _ := cardFloat(hdr, fmt.Sprintf("CRVAL%d", axis))
	crpix, ok := cardFloat(hdr, fmt.Sprintf("CRPIX%d", axis))
	if !ok {
		crpix = 1
	}
	cdelt, ok := cardFloat(hdr, fmt.Sprintf("CDELT%d", axis))
	if !ok {
		cdelt = 1
	}
	hertz := make([]float64, n)
	for i := range hertz {
		hertz[i] = crval + (float64(i+1)-crpix)*cdelt
	}
	return hertz
}

func readPixels(img fitsio.Image, hdr *fitsio.Header) ([]float64, error) {
	n := 1
	for _, d := range hdr.Axes() {
		n *= d
	}
	bscale, ok := cardFloat(hdr, "BSCALE")
	if !ok {
		bscale = 1
	}
	bzero, _ := cardFloat(hdr, "BZERO")
	blank, hasBlank := cardFloat(hdr, "BLANK")

	data := make([]float64, n)
	integer := func(i int, raw float64) {
		if hasBlank && raw == blank {
			data[i] = math.NaN()
			return
		}
		data[i] = bzero + bscale*raw
	}

	switch bitpix := hdr.Bitpix(); bitpix {
	case 8:
		raw := make([]uint8, n)
		if err := img.Read(&raw); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		for i, v := range raw {
			integer(i, float64(v))
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		for i, v := range raw {
			integer(i, float64(v))
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		for i, v := range raw {
			integer(i, float64(v))
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		for i, v := range raw {
			integer(i, float64(v))
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		for i, v := range raw {
			data[i] = bzero + bscale*float64(v)
		}
	case -64:
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		if bscale != 1 || bzero != 0 {
			for i, v := range data {
				data[i] = bzero + bscale*v
			}
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d: %w", bitpix, common.ErrorInvalidValue)
	}
	return data, nil
}

func cardFloat(hdr *fitsio.Header, key string) (float64, bool) {
	card := hdr.Get(key)
	if card == nil {
		return 0, false
	}
	switch v := card.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}

func cardString(hdr *fitsio.Header, key string) string {
	card := hdr.Get(key)
	if card == nil {
		return ""
	}
	if s, ok := card.Value.(string); ok {
		return s
	}
	return ""
}
