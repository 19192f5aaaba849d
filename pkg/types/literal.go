package types

import (
	"fmt"

	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// Literal wraps a primitive base type. Compatibility means the same base
// type, with Any as the universal wildcard.
type Literal struct {
	dtype DType
}

// NewLiteral creates a Literal over the given base type.
func NewLiteral(d DType) *Literal {
	return &Literal{dtype: d}
}

// DType returns the wrapped base type.
func (l *Literal) DType() DType { return l.dtype }

// CheckSchema validates a candidate value or type against the literal.
func (l *Literal) CheckSchema(candidate any) []violation.Violation {
	if t, ok := candidate.(Type); ok {
		return l.checkType(t)
	}
	return l.checkInstance(candidate)
}

func (l *Literal) checkType(t Type) []violation.Violation {
	other, ok := t.(*Literal)
	if !ok {
		return []violation.Violation{violation.NewTypeMismatch(l.String(), t.String())}
	}
	if !l.dtype.Compatible(other.dtype) {
		return []violation.Violation{violation.NewTypeMismatch(l.String(), other.String())}
	}
	return nil
}

func (l *Literal) checkInstance(v any) []violation.Violation {
	if !l.dtype.Matches(v) {
		return []violation.Violation{violation.NewTypeMismatch(l.String(), fmt.Sprintf("%T", v))}
	}
	return nil
}

// Equal reports whether other is a Literal over the same base type.
func (l *Literal) Equal(other Type) bool {
	o, ok := other.(*Literal)
	return ok && o.dtype == l.dtype
}

// Requirements returns nil; literals need no external backend.
func (l *Literal) Requirements() []string { return nil }

func (l *Literal) String() string {
	return l.dtype.String()
}
