package types

import (
	"fmt"
	"time"
)

// DType identifies a primitive value category. It is the base currency of
// Literal types, array element types and frame column types.
type DType uint8

const (
	// Invalid is the zero DType; it matches nothing.
	Invalid DType = iota
	// Bool matches Go bool values.
	Bool
	// Int matches Go signed and unsigned integers.
	Int
	// Float64 matches Go float32 and float64 values.
	Float64
	// String matches Go string values.
	String
	// Time matches time.Time values.
	Time
	// Bytes matches []byte values.
	Bytes
	// Any matches every value. It is the opaque-object escape hatch.
	Any
)

// String returns the lower-case name of the DType.
func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Time:
		return "time"
	case Bytes:
		return "bytes"
	case Any:
		return "any"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(d))
	}
}

// ParseDType resolves a DType by name. It accepts the names produced by
// DType.String plus the common aliases "float" and "int64".
func ParseDType(name string) (DType, error) {
	switch name {
	case "bool":
		return Bool, nil
	case "int", "int64":
		return Int, nil
	case "float64", "float":
		return Float64, nil
	case "string":
		return String, nil
	case "time":
		return Time, nil
	case "bytes":
		return Bytes, nil
	case "any":
		return Any, nil
	default:
		return Invalid, fmt.Errorf("unknown dtype %q", name)
	}
}

// InferDType returns the DType describing a live value. Values with no
// primitive representation infer as Any.
func InferDType(v any) DType {
	switch v.(type) {
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		return Float64
	case string:
		return String
	case time.Time:
		return Time
	case []byte:
		return Bytes
	default:
		return Any
	}
}

// Matches reports whether a live value belongs to the DType. Any matches
// every value.
func (d DType) Matches(v any) bool {
	if d == Any {
		return true
	}
	return InferDType(v) == d
}

// Compatible reports whether a candidate DType satisfies the declared one.
// Any is the universal declared type.
func (d DType) Compatible(candidate DType) bool {
	return d == Any || d == candidate
}
