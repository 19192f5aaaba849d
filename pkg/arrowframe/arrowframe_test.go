package arrowframe

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

func TestDTypeOf(t *testing.T) {
	tests := []struct {
		name string
		in   arrow.DataType
		want types.DType
	}{
		{name: "bool", in: arrow.FixedWidthTypes.Boolean, want: types.Bool},
		{name: "int8", in: arrow.PrimitiveTypes.Int8, want: types.Int},
		{name: "int64", in: arrow.PrimitiveTypes.Int64, want: types.Int},
		{name: "uint32", in: arrow.PrimitiveTypes.Uint32, want: types.Int},
		{name: "float32", in: arrow.PrimitiveTypes.Float32, want: types.Float64},
		{name: "float64", in: arrow.PrimitiveTypes.Float64, want: types.Float64},
		{name: "string", in: arrow.BinaryTypes.String, want: types.String},
		{name: "large string", in: arrow.BinaryTypes.LargeString, want: types.String},
		{name: "binary", in: arrow.BinaryTypes.Binary, want: types.Bytes},
		{name: "timestamp", in: arrow.FixedWidthTypes.Timestamp_ns, want: types.Time},
		{name: "date32", in: arrow.FixedWidthTypes.Date32, want: types.Time},
		{name: "unmapped", in: arrow.FixedWidthTypes.Duration_ms, want: types.Any},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DTypeOf(tt.in))
		})
	}
}

func sampleRecord(t *testing.T) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "price", Type: arrow.PrimitiveTypes.Float64},
		{Name: "ticker", Type: arrow.BinaryTypes.String},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues([]float64{1.5, 2.5}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"A", "B"}, nil)

	rec := b.NewRecord()
	t.Cleanup(rec.Release)
	return rec
}

func TestRecordAdapter(t *testing.T) {
	rec := sampleRecord(t)

	a := RecordAdapter{}
	assert.Equal(t, Capability, a.Capability())
	assert.True(t, a.Is(rec))
	assert.False(t, a.Is("nope"))

	cols, err := a.Columns(rec)
	require.NoError(t, err)
	assert.True(t, cols["price"].Equal(types.NewLiteral(types.Float64)))
	assert.True(t, cols["ticker"].Equal(types.NewLiteral(types.String)))
}

func TestSchemaTypeChecksRecords(t *testing.T) {
	rec := sampleRecord(t)

	declared := SchemaType(map[string]types.DType{"price": types.Float64})
	assert.Empty(t, declared.CheckSchema(rec))

	wrong := SchemaType(map[string]types.DType{"price": types.String})
	vs := wrong.CheckSchema(rec)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Error(), "in column 'price'")

	missing := SchemaType(map[string]types.DType{"volume": types.Int})
	vs = missing.CheckSchema(rec)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Error(), "missing column 'volume'")
}

func TestArrayAdapter(t *testing.T) {
	b := array.NewFloat64Builder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues([]float64{1, 2, 3}, nil)
	arr := b.NewArray()
	defer arr.Release()

	a := ArrayAdapter{}
	assert.True(t, a.Is(arr))

	dt, shape, err := a.DTypeShape(arr)
	require.NoError(t, err)
	assert.Equal(t, types.Float64, dt)
	assert.Equal(t, []int{3}, shape)

	assert.Empty(t, types.NewArray(types.Float64, 3).CheckSchema(arr))
	assert.Empty(t, types.NewArray(types.Float64, types.DimAny).CheckSchema(arr))
	assert.NotEmpty(t, types.NewArray(types.Float64, 4).CheckSchema(arr))
}

func TestCapabilityRegistered(t *testing.T) {
	assert.True(t, capability.Resolvable(Capability))
}
