// Package arrowframe adapts Apache Arrow records and arrays to the
// pipeflow type system, so pipelines can declare and check schemas over
// columnar data that lives outside process-local structures.
package arrowframe

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Capability is the name arrowframe registers with the capability
// registry.
const Capability = "arrow"

// DTypeOf maps an Arrow data type to the pipeflow DType describing it.
// Types with no primitive mapping come back as Any.
func DTypeOf(dt arrow.DataType) types.DType {
	switch dt.ID() {
	case arrow.BOOL:
		return types.Bool
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return types.Int
	case arrow.FLOAT32, arrow.FLOAT64:
		return types.Float64
	case arrow.STRING, arrow.LARGE_STRING:
		return types.String
	case arrow.BINARY, arrow.LARGE_BINARY:
		return types.Bytes
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return types.Time
	default:
		return types.Any
	}
}

// RecordAdapter binds arrow.Record to the DataFrame type.
type RecordAdapter struct{}

// Capability names the backend.
func (RecordAdapter) Capability() string { return Capability }

// Is reports whether v is an Arrow record batch.
func (RecordAdapter) Is(v any) bool {
	_, ok := v.(arrow.Record)
	return ok
}

// Columns extracts the column-name to column-type map of a record batch.
func (RecordAdapter) Columns(v any) (map[string]types.Type, error) {
	rec, ok := v.(arrow.Record)
	if !ok {
		return nil, fmt.Errorf("not an arrow record: %T", v)
	}
	cols := make(map[string]types.Type, rec.Schema().NumFields())
	for _, field := range rec.Schema().Fields() {
		cols[field.Name] = types.NewLiteral(DTypeOf(field.Type))
	}
	return cols, nil
}

// ArrayAdapter binds arrow.Array to the Array type. Arrow arrays are
// one-dimensional; the extracted shape is the array length.
type ArrayAdapter struct{}

// Capability names the backend.
func (ArrayAdapter) Capability() string { return Capability }

// Is reports whether v is an Arrow array.
func (ArrayAdapter) Is(v any) bool {
	_, ok := v.(arrow.Array)
	return ok
}

// DTypeShape extracts the element type and length of an Arrow array.
func (ArrayAdapter) DTypeShape(v any) (types.DType, []int, error) {
	arr, ok := v.(arrow.Array)
	if !ok {
		return types.Invalid, nil, fmt.Errorf("not an arrow array: %T", v)
	}
	return DTypeOf(arr.DataType()), []int{arr.Len()}, nil
}

// SchemaType declares a DataFrame type over the Arrow backend with the
// given column dtypes.
func SchemaType(dtypes map[string]types.DType) *types.DataFrame {
	return types.NewDataFrame(RecordAdapter{}, types.Columns(dtypes))
}

func init() {
	types.RegisterFrameAdapter(RecordAdapter{})
	types.RegisterArrayAdapter(ArrayAdapter{})
	capability.Register(Capability)
}
