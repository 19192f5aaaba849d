package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

func TestChangesDeclarationOrder(t *testing.T) {
	c := NewChanges().
		Set("b", types.NewLiteral(types.Int)).
		Drop("a").
		Set("c", types.NewLiteral(types.String))

	assert.Equal(t, []string{"b", "a", "c"}, c.Fields())
	assert.Equal(t, 3, c.Len())
}

func TestChangesApply(t *testing.T) {
	c := NewChanges().
		Set("x", types.NewLiteral(types.Float64)).
		Drop("gone")

	s := types.Schema{"gone": types.NewLiteral(types.Int)}
	s = c.Apply(s)

	assert.True(t, s["x"].Equal(types.NewLiteral(types.Float64)))
	_, ok := s["gone"]
	assert.False(t, ok)
}

func TestChangesApplyOrderWithinField(t *testing.T) {
	// Later operations on the same field see the earlier ones' effect.
	c := NewChanges().
		Set("x", types.NewLiteral(types.Int)).
		Drop("x")

	s := c.Apply(types.Schema{})
	assert.Empty(t, s)
}

func TestChangesMergeDeduplicatesRuns(t *testing.T) {
	floats := types.NewLiteral(types.Float64)

	merged := NewChanges()
	merged.Merge(NewChanges().Set("x", floats))
	merged.Merge(NewChanges().Set("x", floats)) // same effect again
	merged.Merge(NewChanges().Drop("x"))
	merged.Merge(NewChanges().Set("y", floats))

	require.Equal(t, []string{"x", "y"}, merged.Fields())

	xOps := merged.Ops("x")
	require.Len(t, xOps, 2, "a repeated identical effect must not accumulate")
	assert.True(t, xOps[0].Equal(NewSet(floats)))
	assert.True(t, xOps[1].Equal(NewDrop()))

	assert.Len(t, merged.Ops("y"), 1)
}

func TestChangesMergeRecordsAlternation(t *testing.T) {
	// Only consecutive duplicates collapse; an alternation is preserved.
	ints := types.NewLiteral(types.Int)

	merged := NewChanges()
	merged.Merge(NewChanges().Set("x", ints))
	merged.Merge(NewChanges().Drop("x"))
	merged.Merge(NewChanges().Set("x", ints))

	assert.Len(t, merged.Ops("x"), 3)
}

func TestChangesClone(t *testing.T) {
	c := NewChanges().Set("x", types.NewLiteral(types.Int))
	cl := c.Clone()
	cl.Drop("y")

	assert.Equal(t, []string{"x"}, c.Fields())
	assert.Equal(t, []string{"x", "y"}, cl.Fields())
}

func TestChangesNilReceiver(t *testing.T) {
	var c *Changes
	assert.Nil(t, c.Fields())
	assert.Nil(t, c.Ops("x"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, "{}", c.String())

	s := types.Schema{"x": types.NewLiteral(types.Int)}
	assert.Equal(t, s, c.Apply(s))

	cl := c.Clone()
	require.NotNil(t, cl)
	assert.Equal(t, 0, cl.Len())
}

func TestChangesString(t *testing.T) {
	c := NewChanges().
		Set("x", types.NewLiteral(types.Float64)).
		Drop("x")
	assert.Equal(t, "{x: set(float64) then drop()}", c.String())
}
