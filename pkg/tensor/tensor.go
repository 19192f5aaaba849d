// Package tensor provides the built-in dense numeric array and its
// type-system adapter: a flat float64 buffer with an explicit shape.
package tensor

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Capability is the name tensor registers with the capability registry.
const Capability = "tensor"

// Construction and access errors.
var (
	ErrShapeMismatch = errors.New("data length does not match shape")
	ErrBadIndex      = errors.New("index out of range")
)

// Dense is a dense float64 array with a fixed shape.
type Dense struct {
	shape []int
	data  []float64
}

// FromFloat64s creates a Dense from a flat buffer and its shape. The
// product of the dims must equal the buffer length.
func FromFloat64s(data []float64, dims ...int) (*Dense, error) {
	n := 1
	for _, d := range dims {
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d values, shape %v", ErrShapeMismatch, len(data), dims)
	}
	return &Dense{shape: append([]int(nil), dims...), data: append([]float64(nil), data...)}, nil
}

// Zeros creates a zero-filled Dense with the given shape.
func Zeros(dims ...int) *Dense {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return &Dense{shape: append([]int(nil), dims...), data: make([]float64, n)}
}

// DType returns the element type; Dense is always float64.
func (d *Dense) DType() types.DType { return types.Float64 }

// Shape returns the dimension sizes.
func (d *Dense) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Len returns the total element count.
func (d *Dense) Len() int { return len(d.data) }

// At returns the element at the given multi-dimensional index.
func (d *Dense) At(idx ...int) (float64, error) {
	off, err := d.offset(idx)
	if err != nil {
		return 0, err
	}
	return d.data[off], nil
}

// Set stores the element at the given multi-dimensional index.
func (d *Dense) Set(v float64, idx ...int) error {
	off, err := d.offset(idx)
	if err != nil {
		return err
	}
	d.data[off] = v
	return nil
}

// Data returns the flat buffer, row-major.
func (d *Dense) Data() []float64 {
	return append([]float64(nil), d.data...)
}

func (d *Dense) offset(idx []int) (int, error) {
	if len(idx) != len(d.shape) {
		return 0, fmt.Errorf("%w: %v for shape %v", ErrBadIndex, idx, d.shape)
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= d.shape[i] {
			return 0, fmt.Errorf("%w: %v for shape %v", ErrBadIndex, idx, d.shape)
		}
		off = off*d.shape[i] + ix
	}
	return off, nil
}

// Adapter binds Dense to the type system.
type Adapter struct{}

// Capability names the backend.
func (Adapter) Capability() string { return Capability }

// Is reports whether v is a dense tensor.
func (Adapter) Is(v any) bool {
	_, ok := v.(*Dense)
	return ok
}

// DTypeShape extracts the element type and shape of a dense tensor.
func (Adapter) DTypeShape(v any) (types.DType, []int, error) {
	d, ok := v.(*Dense)
	if !ok {
		return types.Invalid, nil, fmt.Errorf("not a tensor: %T", v)
	}
	return d.DType(), d.Shape(), nil
}

func init() {
	types.RegisterArrayAdapter(Adapter{})
	capability.Register(Capability)
}
