package types

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// List describes a homogeneous slice. Instance mode validates the outer
// container kind and then every element; type mode compares item types
// only and never lengths.
type List struct {
	item Type
}

// NewList creates a List whose elements satisfy item.
func NewList(item Type) *List {
	return &List{item: item}
}

// Item returns the element type.
func (l *List) Item() Type { return l.item }

// CheckSchema validates a candidate value or type against the list.
func (l *List) CheckSchema(candidate any) []violation.Violation {
	if t, ok := candidate.(Type); ok {
		other, ok := t.(*List)
		if !ok {
			return []violation.Violation{violation.NewTypeMismatch(l.String(), t.String())}
		}
		return checkItemType(l.String(), l.item, other.item)
	}
	return checkElements(l.String(), l.item, candidate, reflect.Slice)
}

// Equal reports whether other is a List with an equal item type.
func (l *List) Equal(other Type) bool {
	o, ok := other.(*List)
	return ok && l.item.Equal(o.item)
}

// Requirements returns the item type's requirements.
func (l *List) Requirements() []string { return l.item.Requirements() }

func (l *List) String() string {
	return fmt.Sprintf("list(%s)", l.item)
}

// Tuple describes a fixed-size Go array. It shares List's checking rules
// but expects the array container kind.
type Tuple struct {
	item Type
}

// NewTuple creates a Tuple whose elements satisfy item.
func NewTuple(item Type) *Tuple {
	return &Tuple{item: item}
}

// Item returns the element type.
func (t *Tuple) Item() Type { return t.item }

// CheckSchema validates a candidate value or type against the tuple.
func (t *Tuple) CheckSchema(candidate any) []violation.Violation {
	if ct, ok := candidate.(Type); ok {
		other, ok := ct.(*Tuple)
		if !ok {
			return []violation.Violation{violation.NewTypeMismatch(t.String(), ct.String())}
		}
		return checkItemType(t.String(), t.item, other.item)
	}
	return checkElements(t.String(), t.item, candidate, reflect.Array)
}

// Equal reports whether other is a Tuple with an equal item type.
func (t *Tuple) Equal(other Type) bool {
	o, ok := other.(*Tuple)
	return ok && t.item.Equal(o.item)
}

// Requirements returns the item type's requirements.
func (t *Tuple) Requirements() []string { return t.item.Requirements() }

func (t *Tuple) String() string {
	return fmt.Sprintf("tuple(%s)", t.item)
}

// checkItemType compares declared and candidate item types for the
// type-mode path shared by List and Tuple.
func checkItemType(desc string, declared, candidate Type) []violation.Violation {
	if vs := declared.CheckSchema(candidate); len(vs) > 0 {
		return violation.Locate(vs, fmt.Sprintf("in items of %s", desc))
	}
	return nil
}

// checkElements validates the container kind of a live value and then
// every element against the item type.
func checkElements(desc string, item Type, v any, kind reflect.Kind) []violation.Violation {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != kind {
		return []violation.Violation{violation.NewTypeMismatch(desc, fmt.Sprintf("%T", v))}
	}
	var vs []violation.Violation
	for i := 0; i < rv.Len(); i++ {
		sub := item.CheckSchema(rv.Index(i).Interface())
		vs = append(vs, violation.Locate(sub, fmt.Sprintf("at index %d", i))...)
	}
	return vs
}
