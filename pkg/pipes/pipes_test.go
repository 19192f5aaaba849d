package pipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pipeflow/pkg/frame"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

func TestToFloat64(t *testing.T) {
	p := NewToFloat64("x")

	vs, err := p.CheckTransform(map[string]any{"x": []string{"1.5"}}, false)
	require.NoError(t, err)
	assert.Empty(t, vs)

	out, err := p.Transform(map[string]any{"x": []string{"1.5", "-2", "0"}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2, 0}, out["x"])

	_, err = p.Transform(map[string]any{"x": []string{"nope"}})
	require.Error(t, err)

	_, err = p.Transform(map[string]any{"x": 5})
	assert.ErrorIs(t, err, ErrNotStringList)
}

func TestToFloat64Schema(t *testing.T) {
	p := NewToFloat64("x")

	out, err := p.TransformSchema(types.Schema{
		"x": types.NewList(types.NewLiteral(types.String)),
	})
	require.NoError(t, err)
	assert.True(t, out["x"].Equal(types.NewList(types.NewLiteral(types.Float64))))
}

func TestStandardizeFitTransform(t *testing.T) {
	p := NewStandardize("x")

	require.NoError(t, p.Fit(map[string]any{"x": []float64{1, 2, 3}}, nil))

	assert.InDelta(t, 2.0, p.MustState(StateMean).(float64), 1e-12)
	assert.InDelta(t, 0.816496580927726, p.MustState(StateStd).(float64), 1e-12)

	out, err := p.Transform(map[string]any{"x": []float64{1, 2, 3}})
	require.NoError(t, err)
	got := out["x"].([]float64)
	require.Len(t, got, 3)
	assert.InDelta(t, -1.2247448713915887, got[0], 1e-12)
	assert.InDelta(t, 0.0, got[1], 1e-12)
	assert.InDelta(t, 1.2247448713915887, got[2], 1e-12)
}

func TestStandardizeTransformBeforeFit(t *testing.T) {
	p := NewStandardize("x")

	_, err := p.Transform(map[string]any{"x": []float64{1}})
	require.Error(t, err)
	nf, ok := err.(*violation.NotFitted)
	require.True(t, ok)
	assert.Equal(t, "standardize", nf.Pipe)
	assert.Equal(t, StateMean, nf.Key)
}

func TestStandardizeZeroVariance(t *testing.T) {
	p := NewStandardize("x")
	require.NoError(t, p.Fit(map[string]any{"x": []float64{5, 5, 5}}, nil))

	_, err := p.Transform(map[string]any{"x": []float64{5}})
	assert.ErrorIs(t, err, ErrZeroVariance)
}

func TestStandardizeFitBadField(t *testing.T) {
	p := NewStandardize("x")
	assert.ErrorIs(t, p.Fit(map[string]any{"x": "nope"}, nil), ErrNotFloatList)
}

func TestDropColumns(t *testing.T) {
	p := NewDropColumns("f", []string{"secret", "tmp"})

	f := frame.New().
		WithColumn("keep", types.Int, 1).
		WithColumn("secret", types.String, "x").
		WithColumn("tmp", types.Int, 2)

	out, err := p.Transform(map[string]any{"f": f})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, out["f"].(*frame.Frame).Names())

	_, err = p.Transform(map[string]any{"f": "not a frame"})
	assert.ErrorIs(t, err, ErrNotFrame)
}

func TestDropColumnsSchema(t *testing.T) {
	p := NewDropColumns("f", []string{"secret"})

	in := types.Schema{
		"f": frame.SchemaType(map[string]types.DType{
			"keep":   types.Int,
			"secret": types.String,
		}),
	}
	out, err := p.TransformSchema(in)
	require.NoError(t, err)

	df := out["f"].(*types.DataFrame)
	assert.Equal(t, []string{"keep"}, df.ColumnNames())

	// The input schema keeps its column.
	assert.Equal(t, []string{"keep", "secret"},
		in["f"].(*types.DataFrame).ColumnNames())
}

func TestValueHelpers(t *testing.T) {
	got, err := stringValues([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = stringValues([]any{"a", 1})
	assert.ErrorIs(t, err, ErrNotStringList)

	fs, err := floatValues([]any{1.0, 2.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, fs)

	_, err = floatValues([]any{1.0, "x"})
	assert.ErrorIs(t, err, ErrNotFloatList)
}
