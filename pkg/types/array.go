package types

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// DimAny is the wildcard dimension size: any size satisfies it.
const DimAny = -1

// Shape is an ordered sequence of dimension sizes. A nil Shape is
// compatible with every candidate; a DimAny entry is compatible with any
// size in that dimension. Rank must always match exactly.
type Shape []int

// Compatible reports whether a candidate shape satisfies the declared
// one. A rank mismatch is always incompatible, even when every declared
// dimension is a wildcard.
func (s Shape) Compatible(candidate []int) bool {
	if s == nil {
		return true
	}
	if len(s) != len(candidate) {
		return false
	}
	for i, d := range s {
		if d != DimAny && d != candidate[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	if s == nil {
		return "any"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		if d == DimAny {
			parts[i] = "any"
		} else {
			parts[i] = fmt.Sprintf("%d", d)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Array describes a fixed-shape numeric array: an element type plus an
// optional shape. Live values are recognized through the registered
// ArrayAdapters, so any backend supplying an adapter can satisfy an
// Array declaration.
type Array struct {
	elem  DType
	shape Shape
}

// NewArray creates an Array over the element type. With no dims the shape
// is unconstrained; DimAny entries are per-dimension wildcards.
func NewArray(elem DType, dims ...int) *Array {
	var shape Shape
	if len(dims) > 0 {
		shape = append(Shape{}, dims...)
	}
	return &Array{elem: elem, shape: shape}
}

// Elem returns the element type.
func (a *Array) Elem() DType { return a.elem }

// Shape returns the declared shape; nil means unconstrained.
func (a *Array) Shape() Shape { return a.shape }

// CheckSchema validates a candidate value or type against the array.
func (a *Array) CheckSchema(candidate any) []violation.Violation {
	if t, ok := candidate.(Type); ok {
		return a.checkType(t)
	}
	return a.checkInstance(candidate)
}

func (a *Array) checkType(t Type) []violation.Violation {
	other, ok := t.(*Array)
	if !ok {
		return []violation.Violation{violation.NewTypeMismatch(a.String(), t.String())}
	}
	if !a.elem.Compatible(other.elem) {
		return []violation.Violation{violation.NewTypeMismatch(a.elem.String(), other.elem.String())}
	}
	if !a.shape.Compatible(other.shape) {
		return []violation.Violation{violation.NewShapeMismatch(a.shape, other.shape)}
	}
	return nil
}

func (a *Array) checkInstance(v any) []violation.Violation {
	for _, ad := range registeredArrayAdapters() {
		if !ad.Is(v) {
			continue
		}
		dt, shape, err := ad.DTypeShape(v)
		if err != nil {
			return []violation.Violation{violation.NewTypeMismatch(a.String(), fmt.Sprintf("%T (%v)", v, err))}
		}
		if !a.elem.Compatible(dt) {
			return []violation.Violation{violation.NewTypeMismatch(a.elem.String(), dt.String())}
		}
		if !a.shape.Compatible(shape) {
			return []violation.Violation{violation.NewShapeMismatch(a.shape, shape)}
		}
		return nil
	}
	return []violation.Violation{violation.NewTypeMismatch(a.String(), fmt.Sprintf("%T", v))}
}

// Equal reports whether other is an Array with the same element type and
// shape.
func (a *Array) Equal(other Type) bool {
	o, ok := other.(*Array)
	if !ok || a.elem != o.elem {
		return false
	}
	if len(a.shape) != len(o.shape) {
		return false
	}
	for i, d := range a.shape {
		if o.shape[i] != d {
			return false
		}
	}
	return true
}

// Requirements returns nil: an Array declaration is backend-agnostic and
// is satisfiable by any registered array adapter. Backend-specific needs
// are declared on the owning contract.
func (a *Array) Requirements() []string { return nil }

func (a *Array) String() string {
	if a.shape == nil {
		return fmt.Sprintf("array(%s)", a.elem)
	}
	return fmt.Sprintf("array(%s, %s)", a.elem, a.shape)
}
