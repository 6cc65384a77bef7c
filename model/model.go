package model

import "fmt"

// Clip is a pair of display bounds, typically taken from a symmetric
// percentile pair around the median.
type Clip struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (c Clip) String() string {
	return fmt.Sprintf("[%v, %v]", c.Lower, c.Upper)
}

// Location identifies the sample an order statistic was taken from.
// Index is the ordinal in traversal order, counting non-finite samples too.
// Frame and Pixel split Index by the per-frame element count; without a
// spectral axis Frame is 0 and Pixel equals Index.
type Location struct {
	Index int `json:"index"`
	Frame int `json:"frame"`
	Pixel int `json:"pixel"`
}

type QuantileValue struct {
	Quantile float64   `json:"q"`
	Value    float64   `json:"v"`
	Location *Location `json:"loc,omitempty"`
}

// ClipResult holds one QuantileValue per requested fraction, in request order.
// Repeated fractions produce repeated entries.
type ClipResult []QuantileValue

// Get returns the first entry computed for fraction q.
func (r ClipResult) Get(q float64) (*QuantileValue, bool) {
	for i := range r {
		if r[i].Quantile == q {
			return &r[i], true
		}
	}
	return nil, false
}

func (r ClipResult) Values() []float64 {
	res := make([]float64, len(r))
	for i, v := range r {
		res[i] = v.Value
	}
	return res
}

func (r ClipResult) DebugString() string {
	return fmt.Sprintf("clipCount: %v, values: %v", len(r), r.Values())
}

// Cdf pairs an intensity X with the fraction of finite samples at or below it.
type Cdf struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
}

// CdfResult has one entry per input intensity, in input order.
type CdfResult []Cdf

func (r CdfResult) Fractions() []float64 {
	res := make([]float64, len(r))
	for i, c := range r {
		res[i] = c.Value
	}
	return res
}

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count uint64  `json:"count"`
}

type Histogram struct {
	Bins []HistogramBin `json:"bins"`
	// Total counts every finite sample inside the channel range, including
	// those outside the intensity range.
	Total uint64 `json:"total"`
}
