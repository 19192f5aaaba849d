package types

import "reflect"

// Infer derives the Type describing a live value. Frame and array values
// are recognized through the registered adapters; slices and Go arrays
// infer as List and Tuple over the first element's type; everything else
// infers as a Literal.
//
// Inference exists for diagnostics and symbolic schema threading. The
// correctness-critical path is always the declared contract checked
// against the value itself.
func Infer(v any) Type {
	if t, ok := v.(Type); ok {
		return t
	}
	for _, a := range registeredFrameAdapters() {
		if !a.Is(v) {
			continue
		}
		cols, err := a.Columns(v)
		if err != nil {
			break
		}
		return NewDataFrame(a, cols)
	}
	for _, a := range registeredArrayAdapters() {
		if !a.Is(v) {
			continue
		}
		dt, shape, err := a.DTypeShape(v)
		if err != nil {
			break
		}
		return NewArray(dt, shape...)
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.IsValid() && rv.Kind() == reflect.Slice && InferDType(v) != Bytes:
		return NewList(inferItem(rv))
	case rv.IsValid() && rv.Kind() == reflect.Array:
		return NewTuple(inferItem(rv))
	default:
		return NewLiteral(InferDType(v))
	}
}

// inferItem infers the element type of a non-empty sequence from its
// first element; empty sequences infer as any.
func inferItem(rv reflect.Value) Type {
	if rv.Len() == 0 {
		return NewLiteral(Any)
	}
	return Infer(rv.Index(0).Interface())
}

// InferSchema derives a Schema describing every entry of a live data
// dictionary. Entries already holding a Type pass through unchanged, so a
// schema dictionary infers as itself.
func InferSchema(data map[string]any) Schema {
	s := make(Schema, len(data))
	for k, v := range data {
		s[k] = Infer(v)
	}
	return s
}
