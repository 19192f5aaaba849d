// Package violation defines the structured schema and contract violations
// reported by the pipeflow checking engine, together with the location
// trails used to trace a violation from a pipeline stage down to a single
// column or parameter.
package violation

import (
	"fmt"
	"strings"
)

// Violation is one schema or contract mismatch. Every violation is an
// error and carries an ordered location trail, innermost context first.
// Layers append context with Locate as the violation propagates outward;
// they never replace the trail.
type Violation interface {
	error

	// Trail returns the accumulated location context, innermost first.
	Trail() []string

	// Locate appends one more context string to the trail.
	Locate(loc string)
}

// trail is the shared location-trail implementation embedded by every
// violation kind.
type trail struct {
	locs []string
}

func (t *trail) Trail() []string   { return t.locs }
func (t *trail) Locate(loc string) { t.locs = append(t.locs, loc) }

// where renders the trail for error messages. Empty trails render as an
// empty string so messages stay compact at the innermost layer.
func (t *trail) where() string {
	if len(t.locs) == 0 {
		return ""
	}
	return " " + strings.Join(t.locs, " ")
}

// Locate appends loc to the trail of every violation in vs and returns vs.
func Locate(vs []Violation, loc string) []Violation {
	for _, v := range vs {
		v.Locate(loc)
	}
	return vs
}

// First returns the first violation of vs as a plain error, or nil when vs
// is empty. It is the fail-fast half of the strict/permissive checking
// protocol: strict callers surface First(vs) and abort, permissive callers
// keep the whole list.
func First(vs []Violation) error {
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

// MissingFields reports declared required keys absent from a data or schema
// dictionary. Data dictionaries are open-world: extra keys never produce a
// MissingFields violation.
type MissingFields struct {
	trail
	Required []string
	Passed   []string
}

// NewMissingFields creates a MissingFields violation. Required and Passed
// should be sorted by the caller for stable messages.
func NewMissingFields(required, passed []string, locs ...string) *MissingFields {
	return &MissingFields{trail: trail{locs: locs}, Required: required, Passed: passed}
}

func (v *MissingFields) Error() string {
	return fmt.Sprintf("missing fields%s: required %v, passed %v", v.where(), v.Required, v.Passed)
}

// ParameterMismatch reports a fit-parameter set that is not exactly the
// declared one. Parameters are closed-world: missing and unexpected names
// both fail.
type ParameterMismatch struct {
	trail
	Expected []string
	Passed   []string
}

// NewParameterMismatch creates a ParameterMismatch violation.
func NewParameterMismatch(expected, passed []string, locs ...string) *ParameterMismatch {
	return &ParameterMismatch{trail: trail{locs: locs}, Expected: expected, Passed: passed}
}

func (v *ParameterMismatch) Error() string {
	return fmt.Sprintf("incompatible parameters%s: expected %v, passed %v", v.where(), v.Expected, v.Passed)
}

// TypeMismatch reports a field whose value or declared type does not match
// the expected type. Expected and Actual are human-readable type
// descriptions supplied by the type system.
type TypeMismatch struct {
	trail
	Expected string
	Actual   string
}

// NewTypeMismatch creates a TypeMismatch violation.
func NewTypeMismatch(expected, actual string, locs ...string) *TypeMismatch {
	return &TypeMismatch{trail: trail{locs: locs}, Expected: expected, Actual: actual}
}

func (v *TypeMismatch) Error() string {
	return fmt.Sprintf("wrong type%s: required %s, passed %s", v.where(), v.Expected, v.Actual)
}

// ShapeMismatch reports an array whose dimensions do not satisfy the
// declared shape. A wildcard dimension renders as "any".
type ShapeMismatch struct {
	trail
	Expected []int
	Actual   []int
}

// NewShapeMismatch creates a ShapeMismatch violation.
func NewShapeMismatch(expected, actual []int, locs ...string) *ShapeMismatch {
	return &ShapeMismatch{trail: trail{locs: locs}, Expected: expected, Actual: actual}
}

func (v *ShapeMismatch) Error() string {
	return fmt.Sprintf("wrong shape%s: required %s, passed %s",
		v.where(), formatShape(v.Expected), formatShape(v.Actual))
}

func formatShape(shape []int) string {
	if shape == nil {
		return "(any)"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		if d < 0 {
			parts[i] = "any"
		} else {
			parts[i] = fmt.Sprintf("%d", d)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// MissingColumn reports a table-typed field that lacks a declared column.
type MissingColumn struct {
	trail
	Column string
	Have   []string
}

// NewMissingColumn creates a MissingColumn violation. Have lists the
// columns actually present, sorted by the caller.
func NewMissingColumn(column string, have []string, locs ...string) *MissingColumn {
	return &MissingColumn{trail: trail{locs: locs}, Column: column, Have: have}
}

func (v *MissingColumn) Error() string {
	return fmt.Sprintf("missing column '%s'%s: have %v", v.Column, v.where(), v.Have)
}

// MissingCapability reports a declared external capability that is not
// resolvable in the current environment. It is independent of structural
// schema correctness.
type MissingCapability struct {
	trail
	Capability string
	Type       string
}

// NewMissingCapability creates a MissingCapability violation. typeDesc
// names the type that declared the capability.
func NewMissingCapability(capability, typeDesc string, locs ...string) *MissingCapability {
	return &MissingCapability{trail: trail{locs: locs}, Capability: capability, Type: typeDesc}
}

func (v *MissingCapability) Error() string {
	return fmt.Sprintf("capability '%s' required by %s is not available%s", v.Capability, v.Type, v.where())
}

// NotFitted reports a state key read before fit populated it. It names
// both the offending pipe and the missing key so the caller can trace the
// access to a missing Fit call. NotFitted is always fatal.
type NotFitted struct {
	trail
	Pipe string
	Key  string
}

// NewNotFitted creates a NotFitted violation.
func NewNotFitted(pipe, key string, locs ...string) *NotFitted {
	return &NotFitted{trail: trail{locs: locs}, Pipe: pipe, Key: key}
}

func (v *NotFitted) Error() string {
	return fmt.Sprintf("pipe '%s'%s must be fitted before its state '%s' is usable", v.Pipe, v.where(), v.Key)
}
