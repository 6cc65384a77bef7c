// Package ndarray defines the read-only n-dimensional view consumed by the
// percentile engines, and a strided in-memory implementation of it.
package ndarray

import (
	"fmt"

	"github.com/uyouii/cube-percentiles/common"
	"github.com/uyouii/cube-percentiles/utils"
)

// View is a read-only n-dimensional array of float64 samples.
//
// ForEach visits every element once in flattened order, last dimension
// varying fastest. SubView restricts the view with one selector per
// dimension; fixed dimensions are dropped from the result.
type View interface {
	Dims() []int
	ForEach(visit func(v float64))
	SubView(s Slice) (View, error)
}

// Len returns the number of elements in v.
func Len(v View) int {
	return utils.Product(v.Dims())
}

// Dense is a strided view over a flat float64 slice. Sub-views share the
// backing slice.
type Dense struct {
	data    []float64
	dims    []int
	strides []int
	offset  int
}

// NewDense wraps data, laid out row-major with the given dims. data is not copied.
func NewDense(data []float64, dims ...int) (*Dense, error) {
	for i, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("dim %d has non-positive size %d: %w", i, d, common.ErrorInvalidValue)
		}
	}
	if n := utils.Product(dims); n != len(data) {
		return nil, fmt.Errorf("dims %v need %d elements, got %d: %w", dims, n, len(data), common.ErrorInvalidValue)
	}
	return &Dense{
		data:    data,
		dims:    append([]int(nil), dims...),
		strides: rowMajorStrides(dims),
	}, nil
}

func rowMajorStrides(dims []int) []int {
	strides := make([]int, len(dims))
	stride := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dims[i]
	}
	return strides
}

func (d *Dense) Dims() []int {
	return append([]int(nil), d.dims...)
}

func (d *Dense) contiguous() bool {
	stride := 1
	for i := len(d.dims) - 1; i >= 0; i-- {
		if d.dims[i] != 1 && d.strides[i] != stride {
			return false
		}
		stride *= d.dims[i]
	}
	return true
}

func (d *Dense) ForEach(visit func(v float64)) {
	rank := len(d.dims)
	if rank == 0 {
		visit(d.data[d.offset])
		return
	}
	if d.contiguous() {
		for _, v := range d.data[d.offset : d.offset+utils.Product(d.dims)] {
			visit(v)
		}
		return
	}

	last := rank - 1
	idx := make([]int, rank)
	pos := d.offset
	for {
		p := pos
		for i := 0; i < d.dims[last]; i++ {
			visit(d.data[p])
			p += d.strides[last]
		}

		k := last - 1
		for ; k >= 0; k-- {
			idx[k]++
			pos += d.strides[k]
			if idx[k] < d.dims[k] {
				break
			}
			pos -= d.strides[k] * d.dims[k]
			idx[k] = 0
		}
		if k < 0 {
			return
		}
	}
}

func (d *Dense) SubView(s Slice) (View, error) {
	if len(s) != len(d.dims) {
		return nil, fmt.Errorf("slice has %d selectors for %d dims: %w", len(s), len(d.dims), common.ErrorInvalidValue)
	}
	sub := &Dense{data: d.data, offset: d.offset}
	for i, sel := range s {
		if !sel.Fixed {
			sub.dims = append(sub.dims, d.dims[i])
			sub.strides = append(sub.strides, d.strides[i])
			continue
		}
		if sel.Index < 0 || sel.Index >= d.dims[i] {
			return nil, fmt.Errorf("index %d out of range for dim %d of size %d: %w",
				sel.Index, i, d.dims[i], common.ErrorInvalidValue)
		}
		sub.offset += sel.Index * d.strides[i]
	}
	return sub, nil
}
