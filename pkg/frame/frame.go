// Package frame provides the built-in in-memory tabular representation
// and its type-system adapter. It keeps to named, typed columns of
// equal length, enough structural surface for schema checking and for
// pipes that edit tables column-wise.
package frame

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Capability is the name frame registers with the capability registry.
const Capability = "frame"

// Frame access errors.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrLengthMismatch = errors.New("column length mismatch")
)

// Column is one named, typed column of values.
type Column struct {
	Name   string
	DType  types.DType
	Values []any
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	order []string
	cols  map[string]*Column
}

// New creates an empty frame.
func New() *Frame {
	return &Frame{cols: map[string]*Column{}}
}

// WithColumn installs a column and returns the frame for chaining. An
// existing column of the same name is replaced in place, keeping its
// position.
func (f *Frame) WithColumn(name string, dtype types.DType, values ...any) *Frame {
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = &Column{Name: name, DType: dtype, Values: values}
	return f
}

// SetColumn installs a column from a prepared Column value.
func (f *Frame) SetColumn(col Column) *Frame {
	return f.WithColumn(col.Name, col.DType, col.Values...)
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return col, nil
}

// Drop removes the named column. Dropping an absent column is a no-op.
func (f *Frame) Drop(name string) {
	if _, ok := f.cols[name]; !ok {
		return
	}
	delete(f.cols, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	return append([]string(nil), f.order...)
}

// Len returns the row count: the length of the first column, zero for an
// empty frame.
func (f *Frame) Len() int {
	if len(f.order) == 0 {
		return 0
	}
	return len(f.cols[f.order[0]].Values)
}

// Validate checks that every column has the same length.
func (f *Frame) Validate() error {
	n := f.Len()
	for _, name := range f.order {
		if len(f.cols[name].Values) != n {
			return fmt.Errorf("%w: column %q has %d values, want %d",
				ErrLengthMismatch, name, len(f.cols[name].Values), n)
		}
	}
	return nil
}

// DTypes returns the column-name to column-dtype map.
func (f *Frame) DTypes() map[string]types.DType {
	dtypes := make(map[string]types.DType, len(f.cols))
	for name, col := range f.cols {
		dtypes[name] = col.DType
	}
	return dtypes
}

// Adapter binds Frame to the type system.
type Adapter struct{}

// Capability names the backend.
func (Adapter) Capability() string { return Capability }

// Is reports whether v is an in-memory frame.
func (Adapter) Is(v any) bool {
	_, ok := v.(*Frame)
	return ok
}

// Columns extracts the column-name to column-type map of a frame.
func (Adapter) Columns(v any) (map[string]types.Type, error) {
	f, ok := v.(*Frame)
	if !ok {
		return nil, fmt.Errorf("not a frame: %T", v)
	}
	return types.Columns(f.DTypes()), nil
}

// SchemaType declares a DataFrame type over the in-memory backend with
// the given column dtypes.
func SchemaType(dtypes map[string]types.DType) *types.DataFrame {
	return types.NewDataFrame(Adapter{}, types.Columns(dtypes))
}

func init() {
	types.RegisterFrameAdapter(Adapter{})
	capability.Register(Capability)
}
