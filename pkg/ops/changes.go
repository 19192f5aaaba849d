package ops

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Changes is an ordered collection of per-field schema operations: the
// declared effect of one transform on a schema. Fields keep declaration
// order; a field may accumulate several operations, applied in order.
//
// The zero value is usable and declares no changes.
type Changes struct {
	fields []string
	ops    map[string][]Operation
}

// NewChanges creates an empty Changes.
func NewChanges() *Changes {
	return &Changes{ops: map[string][]Operation{}}
}

// Add appends operations for a field, keeping first-added field order.
// It returns the receiver for declaration chaining.
func (c *Changes) Add(field string, operations ...Operation) *Changes {
	if c.ops == nil {
		c.ops = map[string][]Operation{}
	}
	if _, seen := c.ops[field]; !seen {
		c.fields = append(c.fields, field)
	}
	c.ops[field] = append(c.ops[field], operations...)
	return c
}

// Set declares that the field's type is replaced by t.
func (c *Changes) Set(field string, t types.Type) *Changes {
	return c.Add(field, NewSet(t))
}

// Drop declares that the field is removed.
func (c *Changes) Drop(field string) *Changes {
	return c.Add(field, NewDrop())
}

// Modify declares column-level edits on the frame type at the field.
func (c *Changes) Modify(field string, adapter types.FrameAdapter, columns map[string]Operation) *Changes {
	return c.Add(field, NewModifyFrame(adapter, columns))
}

// Fields returns the field names in declaration order.
func (c *Changes) Fields() []string {
	if c == nil {
		return nil
	}
	return c.fields
}

// Ops returns the accumulated operations declared for a field, in order.
// Multiple distinct operations on one field expose the multi-stage effect
// of a pipeline on that field.
func (c *Changes) Ops(field string) []Operation {
	if c == nil {
		return nil
	}
	return c.ops[field]
}

// Len returns the number of declared fields.
func (c *Changes) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

// Apply performs every declared operation on s, fields in declaration
// order, and returns s. The passed schema is mutated; callers owning
// shared schemas copy first.
func (c *Changes) Apply(s types.Schema) types.Schema {
	if c == nil {
		return s
	}
	for _, field := range c.fields {
		for _, op := range c.ops[field] {
			s = op.Apply(field, s)
		}
	}
	return s
}

// Merge appends other's operations, preserving both declaration orders.
// An operation is recorded only when it differs from the most recent one
// already recorded for the same field, so a pipeline of stages repeating
// the same declared effect does not inflate the merged view.
func (c *Changes) Merge(other *Changes) *Changes {
	if other == nil {
		return c
	}
	for _, field := range other.fields {
		for _, op := range other.ops[field] {
			existing := c.Ops(field)
			if n := len(existing); n > 0 && existing[n-1].Equal(op) {
				continue
			}
			c.Add(field, op)
		}
	}
	return c
}

// Clone returns a deep copy of the declaration structure. Operations
// themselves are immutable values and are shared.
func (c *Changes) Clone() *Changes {
	out := NewChanges()
	if c == nil {
		return out
	}
	for _, field := range c.fields {
		out.Add(field, c.ops[field]...)
	}
	return out
}

func (c *Changes) String() string {
	if c == nil || len(c.fields) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(c.fields))
	for _, field := range c.fields {
		descs := make([]string, len(c.ops[field]))
		for i, op := range c.ops[field] {
			descs[i] = op.String()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(descs, " then ")))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
