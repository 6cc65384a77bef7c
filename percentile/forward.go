package percentile

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/model"
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/utils"
	"go.uber.org/zap"
)

// ComputeClips returns, for every fraction q, the intensity such that a
// fraction q of the finite samples of view are at or below it. The value is
// the exact order statistic of rank clamp(ceil(N*q), 1, N) - 1 over the N
// finite samples, in converted units when a converter is given.
//
// Fractions are best given in ascending order. The result has one entry per
// fraction, in request order.
func ComputeClips(ctx context.Context, view ndarray.View, fractions []float64,
	opts ...Option) (model.ClipResult, error) {
	return computeClips(ctx, view, fractions, false, opts)
}

// ComputeClipsWithLocation is ComputeClips that also reports where in view
// each selected sample was found.
func ComputeClipsWithLocation(ctx context.Context, view ndarray.View, fractions []float64,
	opts ...Option) (model.ClipResult, error) {
	return computeClips(ctx, view, fractions, true, opts)
}

func computeClips(ctx context.Context, view ndarray.View, fractions []float64,
	track bool, opts []Option) (res model.ClipResult, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("computeClips recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("compute clips: %v", r)
		}
	}()

	if err := validateFractions(fractions); err != nil {
		logger.Error("invalid clip fractions", zap.Error(err), zap.Float64s("fractions", fractions))
		return nil, err
	}
	s := newSettings(opts)
	if err := s.validate(view); err != nil {
		logger.Error("invalid clip request", zap.Error(err))
		return nil, err
	}

	begin := time.Now()
	cands, frameSize, err := collectCandidates(view, s, track)
	if err != nil {
		logger.Error("collect candidates failed", zap.Error(err))
		return nil, err
	}
	n := cands.Len()
	if n == 0 {
		logger.Error("no finite samples, cannot compute clips", zap.Ints("dims", view.Dims()))
		return nil, common.ErrorEmptyDataset
	}

	sel := newSelector(cands)
	res = make(model.ClipResult, 0, len(fractions))
	for _, q := range fractions {
		r := utils.Clamp(int(math.Ceil(float64(n)*q)), 1, n) - 1
		qv := model.QuantileValue{
			Quantile: q,
			Value:    s.scaleSelected(sel.Select(r)),
		}
		if track {
			index := cands.origins[r]
			qv.Location = &model.Location{
				Index: index,
				Frame: index / frameSize,
				Pixel: index % frameSize,
			}
		}
		res = append(res, qv)
	}

	logger.Debug("compute clips done", zap.Int("candidates", n), zap.String("clips", res.DebugString()),
		zap.Duration("cost", time.Since(begin)))
	return res, nil
}

// scaleSelected finishes the conversion of a selected candidate. Without a
// spectral axis the frame leg is applied here, after selection, which is
// valid for a monotonic leg at a single frequency.
func (s *settings) scaleSelected(v float64) float64 {
	switch {
	case s.converter == nil:
		return v
	case s.frameDependent() && s.spectralIndex < 0:
		return s.converter.Convert(v, s.hertz[0])
	default:
		return v * s.converter.Multiplier
	}
}
