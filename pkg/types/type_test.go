package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

func TestCheckStrictAndPermissive(t *testing.T) {
	strings := NewList(NewLiteral(String))

	// Permissive mode collects every violation and never errors.
	vs, err := Check(strings, []any{1, 2}, false)
	require.NoError(t, err)
	assert.Len(t, vs, 2)

	// Strict mode surfaces the first violation as the error.
	vs, err = Check(strings, []any{1, 2}, true)
	require.Error(t, err)
	assert.Nil(t, vs)
	_, ok := err.(violation.Violation)
	assert.True(t, ok)

	vs, err = Check(strings, []string{"ok"}, true)
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestCheckRequirements(t *testing.T) {
	bound := NewDataFrame(tableAdapter{}, nil)

	available := func(name string) bool { return name == "testtable" }
	assert.Empty(t, CheckRequirements(bound, available))

	nothing := func(string) bool { return false }
	vs := CheckRequirements(bound, nothing)
	require.Len(t, vs, 1)
	mc, ok := vs[0].(*violation.MissingCapability)
	require.True(t, ok)
	assert.Equal(t, "testtable", mc.Capability)
}

func TestSchemaKeys(t *testing.T) {
	s := Schema{"b": NewLiteral(Int), "a": NewLiteral(Int), "c": NewLiteral(Int)}
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
}

func TestSchemaEqual(t *testing.T) {
	a := Schema{"x": NewLiteral(Int), "xs": NewList(NewLiteral(String))}
	b := Schema{"x": NewLiteral(Int), "xs": NewList(NewLiteral(String))}
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(Schema{"x": NewLiteral(Int)}))
	assert.False(t, a.Equal(Schema{"x": NewLiteral(Int), "xs": NewLiteral(String)}))
	assert.False(t, a.Equal(Schema{"x": NewLiteral(Int), "ys": NewList(NewLiteral(String))}))
}
