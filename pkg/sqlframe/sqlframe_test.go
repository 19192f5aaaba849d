package sqlframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/frame"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

func TestDTypeOf(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want types.DType
	}{
		{name: "boolean", decl: "BOOLEAN", want: types.Bool},
		{name: "integer", decl: "INTEGER", want: types.Int},
		{name: "bigint", decl: "bigint", want: types.Int},
		{name: "real", decl: "REAL", want: types.Float64},
		{name: "double", decl: "DOUBLE PRECISION", want: types.Float64},
		{name: "text", decl: "TEXT", want: types.String},
		{name: "varchar", decl: "VARCHAR(32)", want: types.String},
		{name: "blob", decl: "BLOB", want: types.Bytes},
		{name: "timestamp", decl: "TIMESTAMP", want: types.Time},
		{name: "untyped", decl: "", want: types.Any},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DTypeOf(tt.decl))
		})
	}
}

func sampleFrame() *frame.Frame {
	return frame.New().
		WithColumn("price", types.Float64, 1.5, 2.5).
		WithColumn("ticker", types.String, "A", "B")
}

func TestLoadAndColumns(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	table, err := Load(db, "quotes", sampleFrame())
	require.NoError(t, err)
	assert.Equal(t, "quotes", table.Name)

	cols, err := table.Columns()
	require.NoError(t, err)
	assert.True(t, cols["price"].Equal(types.NewLiteral(types.Float64)))
	assert.True(t, cols["ticker"].Equal(types.NewLiteral(types.String)))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM quotes").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestLoadRejectsRaggedFrames(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ragged := frame.New().
		WithColumn("a", types.Int, 1, 2).
		WithColumn("b", types.Int, 1)
	_, err = Load(db, "bad", ragged)
	assert.ErrorIs(t, err, frame.ErrLengthMismatch)
}

func TestColumnsMissingTable(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = (&Table{DB: db, Name: "ghost"}).Columns()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestSchemaTypeChecksTables(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	table, err := Load(db, "quotes", sampleFrame())
	require.NoError(t, err)

	// Open world: the undeclared ticker column passes.
	declared := SchemaType(map[string]types.DType{"price": types.Float64})
	assert.Empty(t, declared.CheckSchema(table))

	missing := SchemaType(map[string]types.DType{"volume": types.Int})
	vs := missing.CheckSchema(table)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Error(), "missing column 'volume'")
}

func TestAdapter(t *testing.T) {
	a := Adapter{}
	assert.Equal(t, Capability, a.Capability())
	assert.True(t, a.Is(&Table{}))
	assert.False(t, a.Is("nope"))

	_, err := a.Columns(42)
	assert.Error(t, err)
}

func TestCapabilityRegistered(t *testing.T) {
	assert.True(t, capability.Resolvable(Capability))
}
