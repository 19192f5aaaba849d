// Package pipes ships small, ready-made pipes covering common pipeline
// plumbing: value parsing, standardization and frame column pruning. They
// double as reference implementations of the Pipe contract style.
package pipes

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mesh-intelligence/pipeflow/pkg/frame"
	"github.com/mesh-intelligence/pipeflow/pkg/ops"
	"github.com/mesh-intelligence/pipeflow/pkg/pipe"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Transform errors.
var (
	ErrNotStringList = errors.New("value is not a list of strings")
	ErrNotFloatList  = errors.New("value is not a list of floats")
	ErrZeroVariance  = errors.New("cannot standardize a zero-variance field")
	ErrNotFrame      = errors.New("value is not an in-memory frame")
)

// ToFloat64 parses a list-of-strings field into a list of floats. It is
// stateless: Fit is a no-op.
type ToFloat64 struct {
	*pipe.Base
	field string
}

// NewToFloat64 creates the parsing pipe for the given field.
func NewToFloat64(field string, opts ...pipe.Option) *ToFloat64 {
	contract := pipe.Contract{
		TransformData: types.Schema{
			field: types.NewList(types.NewLiteral(types.String)),
		},
		TransformModifies: ops.NewChanges().
			Set(field, types.NewList(types.NewLiteral(types.Float64))),
	}
	return &ToFloat64{Base: pipe.NewBase("to_float64", contract, opts...), field: field}
}

// Transform replaces the field with the parsed float values.
func (p *ToFloat64) Transform(data map[string]any) (map[string]any, error) {
	raw, err := stringValues(data[p.field])
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", p.field, err)
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q index %d: %w", p.field, i, err)
		}
		out[i] = v
	}
	data[p.field] = out
	return data, nil
}

// Standardize fits the mean and standard deviation of a list-of-floats
// field and rescales it to zero mean and unit variance.
type Standardize struct {
	*pipe.Base
	field string
}

// State keys populated by Standardize.Fit.
const (
	StateMean = "mean"
	StateStd  = "std"
)

// NewStandardize creates the standardization pipe for the given field.
func NewStandardize(field string, opts ...pipe.Option) *Standardize {
	floats := types.NewList(types.NewLiteral(types.Float64))
	contract := pipe.Contract{
		FitData:       types.Schema{field: floats},
		TransformData: types.Schema{field: floats},
		FittedParameters: types.Schema{
			StateMean: types.NewLiteral(types.Float64),
			StateStd:  types.NewLiteral(types.Float64),
		},
		TransformModifies: ops.NewChanges().Set(field, floats),
	}
	return &Standardize{Base: pipe.NewBase("standardize", contract, opts...), field: field}
}

// Fit computes the population mean and standard deviation of the field.
func (p *Standardize) Fit(data, parameters map[string]any) error {
	vals, err := floatValues(data[p.field])
	if err != nil {
		return fmt.Errorf("field %q: %w", p.field, err)
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals))

	p.SetState(StateMean, mean)
	p.SetState(StateStd, math.Sqrt(variance))
	return nil
}

// Transform rescales the field using the fitted mean and deviation.
func (p *Standardize) Transform(data map[string]any) (map[string]any, error) {
	meanVal, err := p.State(StateMean)
	if err != nil {
		return nil, err
	}
	stdVal, err := p.State(StateStd)
	if err != nil {
		return nil, err
	}
	mean, std := meanVal.(float64), stdVal.(float64)
	if std == 0 {
		return nil, fmt.Errorf("field %q: %w", p.field, ErrZeroVariance)
	}

	vals, err := floatValues(data[p.field])
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", p.field, err)
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - mean) / std
	}
	data[p.field] = out
	return data, nil
}

// DropColumns removes columns from an in-memory frame field. The schema
// effect is declared column-wise, so downstream stages see the pruned
// column map symbolically.
type DropColumns struct {
	*pipe.Base
	field   string
	columns []string
}

// NewDropColumns creates the pruning pipe for the given frame field.
func NewDropColumns(field string, columns []string, opts ...pipe.Option) *DropColumns {
	colOps := make(map[string]ops.Operation, len(columns))
	for _, col := range columns {
		colOps[col] = ops.NewDrop()
	}
	contract := pipe.Contract{
		TransformData: types.Schema{
			field: types.NewDataFrame(frame.Adapter{}, nil),
		},
		TransformModifies: ops.NewChanges().
			Modify(field, frame.Adapter{}, colOps),
	}
	return &DropColumns{
		Base:    pipe.NewBase("drop_columns", contract, opts...),
		field:   field,
		columns: append([]string(nil), columns...),
	}
}

// Transform drops the declared columns from the frame.
func (p *DropColumns) Transform(data map[string]any) (map[string]any, error) {
	f, ok := data[p.field].(*frame.Frame)
	if !ok {
		return nil, fmt.Errorf("field %q: %w (%T)", p.field, ErrNotFrame, data[p.field])
	}
	for _, col := range p.columns {
		f.Drop(col)
	}
	return data, nil
}

func stringValues(v any) ([]string, error) {
	switch vals := v.(type) {
	case []string:
		return vals, nil
	case []any:
		out := make([]string, len(vals))
		for i, item := range vals {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %T at index %d", ErrNotStringList, item, i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotStringList, v)
	}
}

func floatValues(v any) ([]float64, error) {
	switch vals := v.(type) {
	case []float64:
		return vals, nil
	case []any:
		out := make([]float64, len(vals))
		for i, item := range vals {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: %T at index %d", ErrNotFloatList, item, i)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotFloatList, v)
	}
}
