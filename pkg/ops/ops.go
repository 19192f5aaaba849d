// Package ops defines the declarative schema edits a pipe's transform is
// allowed to perform: install a field, drop a field, or rewrite the column
// schema of a tabular field. Operations are data, not imperative code;
// they are declared once when a pipe is constructed and invoked only
// during schema propagation.
package ops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Operation is one declarative edit to a schema at a single field.
type Operation interface {
	// Apply performs the edit on s at the given field and returns s.
	// Apply may mutate the passed schema map; callers owning shared
	// schemas copy before applying.
	Apply(field string, s types.Schema) types.Schema

	// Equal reports whether other performs the same edit.
	Equal(other Operation) bool

	// String returns a compact description of the edit.
	String() string
}

// Set installs a type at a field, replacing any prior declaration.
type Set struct {
	t types.Type
}

// NewSet creates a Set operation installing t.
func NewSet(t types.Type) Set {
	return Set{t: t}
}

// Type returns the installed type.
func (op Set) Type() types.Type { return op.t }

// Apply installs the type at field.
func (op Set) Apply(field string, s types.Schema) types.Schema {
	s[field] = op.t
	return s
}

// Equal reports whether other is a Set installing an equal type.
func (op Set) Equal(other Operation) bool {
	o, ok := other.(Set)
	return ok && op.t.Equal(o.t)
}

func (op Set) String() string {
	return fmt.Sprintf("set(%s)", op.t)
}

// Drop removes a field. Dropping an absent field is a no-op so that
// pipelines stay safe to reorder.
type Drop struct{}

// NewDrop creates a Drop operation.
func NewDrop() Drop {
	return Drop{}
}

// Apply removes field from s.
func (op Drop) Apply(field string, s types.Schema) types.Schema {
	delete(s, field)
	return s
}

// Equal reports whether other is also a Drop.
func (op Drop) Equal(other Operation) bool {
	_, ok := other.(Drop)
	return ok
}

func (op Drop) String() string {
	return "drop()"
}

// ModifyFrame applies a set of column-level operations to the DataFrame
// type at a field. When the field is absent, or holds a non-frame type,
// the edit starts from an empty DataFrame over the given adapter.
type ModifyFrame struct {
	adapter types.FrameAdapter
	columns map[string]Operation
}

// NewModifyFrame creates a ModifyFrame applying the per-column operations.
// The column map is copied.
func NewModifyFrame(adapter types.FrameAdapter, columns map[string]Operation) ModifyFrame {
	cols := make(map[string]Operation, len(columns))
	for name, op := range columns {
		cols[name] = op
	}
	return ModifyFrame{adapter: adapter, columns: cols}
}

// Apply rewrites the frame type stored at field. The stored DataFrame is
// replaced, never edited in place, so schemas copied before propagation
// stay independent.
func (op ModifyFrame) Apply(field string, s types.Schema) types.Schema {
	cols := map[string]types.Type{}
	adapter := op.adapter
	if cur, ok := s[field].(*types.DataFrame); ok {
		for _, name := range cur.ColumnNames() {
			t, _ := cur.Column(name)
			cols[name] = t
		}
		if adapter == nil {
			adapter = cur.Adapter()
		}
	}
	inner := types.Schema(cols)
	for _, name := range op.columnNames() {
		inner = op.columns[name].Apply(name, inner)
	}
	s[field] = types.NewDataFrame(adapter, inner)
	return s
}

// Equal reports whether other is a ModifyFrame with equal column edits
// over the same backend.
func (op ModifyFrame) Equal(other Operation) bool {
	o, ok := other.(ModifyFrame)
	if !ok || len(op.columns) != len(o.columns) {
		return false
	}
	if (op.adapter == nil) != (o.adapter == nil) {
		return false
	}
	if op.adapter != nil && op.adapter.Capability() != o.adapter.Capability() {
		return false
	}
	for name, colOp := range op.columns {
		oc, ok := o.columns[name]
		if !ok || !colOp.Equal(oc) {
			return false
		}
	}
	return true
}

func (op ModifyFrame) String() string {
	parts := make([]string, 0, len(op.columns))
	for _, name := range op.columnNames() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, op.columns[name]))
	}
	return fmt.Sprintf("modifyframe{%s}", strings.Join(parts, ", "))
}

func (op ModifyFrame) columnNames() []string {
	names := make([]string, 0, len(op.columns))
	for name := range op.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
