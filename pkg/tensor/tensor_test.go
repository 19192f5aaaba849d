package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

func TestFromFloat64s(t *testing.T) {
	d, err := FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, d.Shape())
	assert.Equal(t, 6, d.Len())
	assert.Equal(t, types.Float64, d.DType())

	_, err = FromFloat64s([]float64{1, 2, 3}, 2, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAtAndSet(t *testing.T) {
	d, err := FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	// Row-major layout.
	v, err := d.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	require.NoError(t, d.Set(9.0, 0, 1))
	v, err = d.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	_, err = d.At(2, 0)
	assert.ErrorIs(t, err, ErrBadIndex)
	_, err = d.At(0)
	assert.ErrorIs(t, err, ErrBadIndex)
	assert.ErrorIs(t, d.Set(0, -1, 0), ErrBadIndex)
}

func TestZeros(t *testing.T) {
	d := Zeros(3, 2)
	assert.Equal(t, []int{3, 2}, d.Shape())
	assert.Equal(t, make([]float64, 6), d.Data())
}

func TestAdapter(t *testing.T) {
	a := Adapter{}
	assert.Equal(t, Capability, a.Capability())
	assert.True(t, a.Is(Zeros(1)))
	assert.False(t, a.Is([]float64{1}))

	dt, shape, err := a.DTypeShape(Zeros(2, 2))
	require.NoError(t, err)
	assert.Equal(t, types.Float64, dt)
	assert.Equal(t, []int{2, 2}, shape)

	_, _, err = a.DTypeShape("nope")
	assert.Error(t, err)
}

func TestArrayTypeChecksTensors(t *testing.T) {
	d, err := FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	assert.Empty(t, types.NewArray(types.Float64, 2, 3).CheckSchema(d))
	assert.Empty(t, types.NewArray(types.Float64, 2, types.DimAny).CheckSchema(d))
	assert.Empty(t, types.NewArray(types.Float64).CheckSchema(d))
	assert.Empty(t, types.NewArray(types.Any, 2, 3).CheckSchema(d))

	// Rank must match even through wildcards.
	assert.NotEmpty(t, types.NewArray(types.Float64, types.DimAny).CheckSchema(d))
	assert.NotEmpty(t, types.NewArray(types.Float64, 3, 2).CheckSchema(d))
	assert.NotEmpty(t, types.NewArray(types.Int, 2, 3).CheckSchema(d))
}

func TestInferTensor(t *testing.T) {
	got := types.Infer(Zeros(4, 4))
	arr, ok := got.(*types.Array)
	require.True(t, ok)
	assert.Equal(t, types.Float64, arr.Elem())
	assert.Equal(t, types.Shape{4, 4}, arr.Shape())
}

func TestCapabilityRegistered(t *testing.T) {
	assert.True(t, capability.Resolvable(Capability))
}
