package percentile

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/uyouii/cube-percentiles/model"
	"github.com/uyouii/cube-percentiles/ndarray"
	"github.com/uyouii/cube-percentiles/utils"
	"go.uber.org/zap"
)

// ComputeCdf returns, for every intensity, the fraction of finite samples of
// view at or below it. Intensities are in converted units when a converter is
// given; for a frame-dependent converter with a spectral axis each frame is
// compared against its own threshold.
//
// A view without finite samples yields 0 for every intensity.
func ComputeCdf(ctx context.Context, view ndarray.View, intensities []float64,
	opts ...Option) (res model.CdfResult, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("ComputeCdf recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("compute cdf: %v", r)
		}
	}()

	s := newSettings(opts)
	if err := s.validate(view); err != nil {
		logger.Error("invalid cdf request", zap.Error(err))
		return nil, err
	}

	begin := time.Now()
	targets := append([]float64(nil), intensities...)
	if s.converter != nil {
		for i := range targets {
			targets[i] /= s.converter.Multiplier
		}
	}

	counter := newThresholdCounter(len(targets))
	thresholds := make([]float64, len(targets))

	if s.perFrame() {
		err = visitFrames(view, s.spectralIndex, func(f int, frame ndarray.View) {
			for i, t := range targets {
				thresholds[i] = s.converter.FrameConvertInverse(t, s.hertz[f])
			}
			counter.count(frame, thresholds)
		})
		if err != nil {
			logger.Error("visit frames failed", zap.Error(err))
			return nil, err
		}
	} else {
		copy(thresholds, targets)
		if s.frameDependent() {
			for i, t := range targets {
				thresholds[i] = s.converter.FrameConvertInverse(t, s.hertz[0])
			}
		}
		counter.count(view, thresholds)
	}

	res = make(model.CdfResult, len(intensities))
	for i, x := range intensities {
		res[i].X = x
		if counter.total > 0 {
			res[i].Value = float64(counter.counts[i]) / float64(counter.total)
		}
	}

	logger.Debug("compute cdf done", zap.Uint64("total", counter.total),
		zap.Int("intensities", len(intensities)), zap.Duration("cost", time.Since(begin)))
	return res, nil
}

// thresholdCounter counts finite samples at or below each of a set of
// thresholds, summed over any number of count calls.
type thresholdCounter struct {
	total  uint64
	counts []uint64

	order  []int
	sorted []float64
	// hits[k] counts samples whose smallest threshold not below them is sorted[k]
	hits []uint64
}

func newThresholdCounter(n int) *thresholdCounter {
	return &thresholdCounter{
		counts: make([]uint64, n),
		order:  make([]int, 0, n),
		sorted: make([]float64, 0, n),
		hits:   make([]uint64, n),
	}
}

func (c *thresholdCounter) count(view ndarray.View, thresholds []float64) {
	// NaN thresholds match nothing and stay out of the search
	c.order = c.order[:0]
	for i, t := range thresholds {
		if !math.IsNaN(t) {
			c.order = append(c.order, i)
		}
	}
	sort.SliceStable(c.order, func(a, b int) bool {
		return thresholds[c.order[a]] < thresholds[c.order[b]]
	})
	c.sorted = c.sorted[:0]
	for _, i := range c.order {
		c.sorted = append(c.sorted, thresholds[i])
	}

	view.ForEach(func(v float64) {
		if !utils.IsFinite(v) {
			return
		}
		c.total++
		if k := sort.SearchFloat64s(c.sorted, v); k < len(c.sorted) {
			c.hits[k]++
		}
	})

	var run uint64
	for k, i := range c.order {
		run += c.hits[k]
		c.counts[i] += run
		c.hits[k] = 0
	}
}
