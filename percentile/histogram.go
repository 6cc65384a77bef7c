package percentile

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/model"
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

type HistogramParams struct {
	// Bins is the number of equal-width bins, or AutoBins.
	Bins int

	// MinChannel and MaxChannel bound the frames of the spectral axis,
	// inclusive. MaxChannel may be AllChannels.
	MinChannel int
	MaxChannel int

	// Range bounds the binned intensities, in converted units. When nil the
	// finite minimum and maximum of the selected samples are used.
	Range *model.Clip
}

func DefaultHistogramParams() HistogramParams {
	return HistogramParams{
		Bins:       DefaultHistogramBins,
		MaxChannel: AllChannels,
	}
}

// ComputeHistogram bins the finite samples of the selected channels of view
// into equal-width intervals. The last bin includes its upper edge.
func ComputeHistogram(ctx context.Context, view ndarray.View, params HistogramParams,
	opts ...Option) (h *model.Histogram, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("ComputeHistogram recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			h, err = nil, fmt.Errorf("compute histogram: %v", r)
		}
	}()

	s := newSettings(opts)
	if err := s.validate(view); err != nil {
		logger.Error("invalid histogram request", zap.Error(err))
		return nil, err
	}
	bins := params.Bins
	if bins <= 0 && bins != AutoBins {
		return nil, fmt.Errorf("histogram needs a positive bin count, got %d: %w", bins, common.ErrorInvalidValue)
	}
	first, last, err := channelRange(view, s.spectralIndex, params)
	if err != nil {
		logger.Error("invalid histogram channels", zap.Error(err))
		return nil, err
	}

	visit := func(fn func(v float64)) error {
		return visitFrames(view, s.spectralIndex, func(f int, frame ndarray.View) {
			if f < first || f > last {
				return
			}
			hertz := s.frameHertz(f)
			frame.ForEach(func(v float64) {
				if !utils.IsFinite(v) {
					return
				}
				if s.converter != nil {
					v = s.converter.Convert(v, hertz)
				}
				fn(v)
			})
		})
	}

	var lower, upper float64
	if params.Range != nil {
		lower, upper = params.Range.Lower, params.Range.Upper
		if !utils.IsFinite(lower) || !utils.IsFinite(upper) || lower > upper {
			return nil, fmt.Errorf("invalid histogram range %v: %w", params.Range, common.ErrorInvalidValue)
		}
	} else {
		lower, upper = math.Inf(1), math.Inf(-1)
		if err := visit(func(v float64) {
			lower = math.Min(lower, v)
			upper = math.Max(upper, v)
		}); err != nil {
			return nil, err
		}
		if lower > upper {
			logger.Error("no finite samples, cannot compute histogram", zap.Ints("dims", view.Dims()))
			return nil, common.ErrorEmptyDataset
		}
	}

	if bins == AutoBins {
		var values []float64
		if err := visit(func(v float64) {
			if v >= lower && v <= upper {
				values = append(values, v)
			}
		}); err != nil {
			return nil, err
		}
		bins = normalReferenceBins(values, lower, upper)
	}

	edges := histogramEdges(lower, upper, bins)
	width := (upper - lower) / float64(bins)
	res := &model.Histogram{Bins: make([]model.HistogramBin, bins)}
	for i := range res.Bins {
		res.Bins[i].Lower, res.Bins[i].Upper = edges[i], edges[i+1]
	}

	err = visit(func(v float64) {
		res.Total++
		if v < lower || v > upper {
			return
		}
		res.Bins[binIndex(edges, width, v)].Count++
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("compute histogram done", zap.Int("bins", bins), zap.Uint64("total", res.Total),
		zap.Float64("lower", lower), zap.Float64("upper", upper))
	return res, nil
}

// histogramEdges spans [lower, upper] with bins+1 equally spaced edges.
// A range wider than MaxFloat64 is interpolated without its difference.
func histogramEdges(lower, upper float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	if utils.IsFinite(upper - lower) {
		floats.Span(edges, lower, upper)
	} else {
		for i := range edges {
			t := float64(i) / float64(bins)
			edges[i] = lower*(1-t) + upper*t
		}
	}
	edges[bins] = upper
	return edges
}

// binIndex locates v, known to lie within the edges, correcting the
// arithmetic guess against the edges themselves.
func binIndex(edges []float64, width, v float64) int {
	bins := len(edges) - 1
	if width == 0 {
		return 0
	}
	if !utils.IsFinite(width) {
		k := sort.Search(len(edges), func(i int) bool { return edges[i] > v }) - 1
		return utils.Clamp(k, 0, bins-1)
	}
	k := utils.Clamp(int((v-edges[0])/width), 0, bins-1)
	if k > 0 && v < edges[k] {
		k--
	} else if k < bins-1 && v >= edges[k+1] {
		k++
	}
	return k
}

func channelRange(view ndarray.View, axis int, params HistogramParams) (int, int, error) {
	frames := ndarray.FrameCount(view, axis)
	first, last := params.MinChannel, params.MaxChannel
	if last == AllChannels {
		last = frames - 1
	}
	if first < 0 || first > last || last >= frames {
		return 0, 0, fmt.Errorf("channels [%d, %d] out of range for %d frames: %w",
			params.MinChannel, params.MaxChannel, frames, common.ErrorInvalidValue)
	}
	return first, last, nil
}
