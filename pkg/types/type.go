package types

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// Type is a validator and descriptor for one category of value. The
// concrete variants are Literal, List, Tuple, Array and DataFrame; the set
// is closed.
type Type interface {
	// CheckSchema validates a candidate against the type. When candidate
	// is itself a Type the two descriptors are compared structurally
	// (type mode); otherwise the candidate is treated as a live value
	// (instance mode). It returns every violation found; an empty result
	// means the candidate is compatible.
	CheckSchema(candidate any) []violation.Violation

	// Equal reports whether other is the same descriptor.
	Equal(other Type) bool

	// Requirements returns the named external capabilities the type
	// depends on, if any.
	Requirements() []string

	// String returns a compact human-readable description.
	String() string
}

// Check validates candidate against t. In strict mode the first violation
// is returned as an error and the list is nil; in permissive mode every
// violation is collected and the error is always nil.
func Check(t Type, candidate any, strict bool) ([]violation.Violation, error) {
	vs := t.CheckSchema(candidate)
	if strict {
		return nil, violation.First(vs)
	}
	return vs, nil
}

// CheckRequirements verifies that every capability declared by t is
// resolvable through the probe. It is independent of structural schema
// checking: a type can be structurally satisfied while its backend is
// unavailable, and vice versa.
func CheckRequirements(t Type, probe capability.Probe) []violation.Violation {
	var vs []violation.Violation
	for _, req := range t.Requirements() {
		if !probe(req) {
			vs = append(vs, violation.NewMissingCapability(req, t.String()))
		}
	}
	return vs
}

// Schema maps field names to the Type describing each field. A Schema is
// used both as a declared contract and as an inferred description of live
// data. Field order carries no meaning.
type Schema map[string]Type

// CloneSchema returns a copy of s sharing no map storage with the
// original. Composite types whose internal state schema operations may
// edit (DataFrame) are copied as well.
func CloneSchema(s Schema) Schema {
	out := make(Schema, len(s))
	for k, t := range s {
		if df, ok := t.(*DataFrame); ok {
			out[k] = df.clone()
			continue
		}
		out[k] = t
	}
	return out
}

// Keys returns the sorted field names of s.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two schemas declare the same fields with equal
// types.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for k, t := range s {
		ot, ok := other[k]
		if !ok || !t.Equal(ot) {
			return false
		}
	}
	return true
}

// FrameAdapter binds the DataFrame type to one concrete tabular
// representation. Adding a new tabular backend means supplying a new
// adapter, not modifying the type system.
type FrameAdapter interface {
	// Capability names the backend for requirement checking.
	Capability() string

	// Is reports whether a live value is an instance of this frame kind.
	Is(v any) bool

	// Columns extracts the column-name to column-type map of a live
	// frame value.
	Columns(v any) (map[string]Type, error)
}

// ArrayAdapter binds the Array type to one concrete numeric-array
// representation.
type ArrayAdapter interface {
	// Capability names the backend for requirement checking.
	Capability() string

	// Is reports whether a live value is an instance of this array kind.
	Is(v any) bool

	// DTypeShape extracts the element type and dimension sizes of a live
	// array value.
	DTypeShape(v any) (DType, []int, error)
}

var (
	adapterMu     sync.RWMutex
	frameAdapters []FrameAdapter
	arrayAdapters []ArrayAdapter
)

// RegisterFrameAdapter adds a tabular backend to the inference and
// instance-checking registry. Backends call it from their init function.
func RegisterFrameAdapter(a FrameAdapter) {
	adapterMu.Lock()
	defer adapterMu.Unlock()
	frameAdapters = append(frameAdapters, a)
}

// RegisterArrayAdapter adds a numeric-array backend to the inference and
// instance-checking registry. Backends call it from their init function.
func RegisterArrayAdapter(a ArrayAdapter) {
	adapterMu.Lock()
	defer adapterMu.Unlock()
	arrayAdapters = append(arrayAdapters, a)
}

func registeredFrameAdapters() []FrameAdapter {
	adapterMu.RLock()
	defer adapterMu.RUnlock()
	return frameAdapters
}

func registeredArrayAdapters() []ArrayAdapter {
	adapterMu.RLock()
	defer adapterMu.RUnlock()
	return arrayAdapters
}
