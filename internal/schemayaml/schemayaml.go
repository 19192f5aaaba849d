// Package schemayaml parses YAML type descriptors into pipeflow schemas.
// It backs the pipecheck CLI: contracts and data schemas are written as
// YAML documents mapping field names to type descriptors.
//
// Descriptor grammar:
//
//	field: float64                        # literal (bool, int, float64,
//	                                      # string, time, bytes, any)
//	field: {list: string}                 # list of items
//	field: {tuple: int}                   # tuple of items
//	field: {array: {dtype: float64,       # array with optional shape;
//	                shape: [2, ~]}}       # ~ is a wildcard dimension
//	field: {frame: {a: float64, b: any}}  # tabular frame, open-world
package schemayaml

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// Parse errors.
var (
	ErrBadDescriptor = errors.New("malformed type descriptor")
	ErrBadShape      = errors.New("malformed array shape")
)

// ParseSchema parses a YAML document into a Schema.
func ParseSchema(data []byte) (types.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	if len(doc.Content) == 0 {
		return types.Schema{}, nil
	}
	return ParseSchemaNode(doc.Content[0])
}

// ParseSchemaNode parses a mapping node of field names to type
// descriptors. Contract files embed schema sections as nodes; this is
// the entry point for those.
func ParseSchemaNode(node *yaml.Node) (types.Schema, error) {
	if node == nil || node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping of field names to types", ErrBadDescriptor)
	}

	schema := types.Schema{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		field := node.Content[i].Value
		t, err := ParseType(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		schema[field] = t
	}
	return schema, nil
}

// ParseType parses one type descriptor node.
func ParseType(node *yaml.Node) (types.Type, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		dt, err := types.ParseDType(node.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDescriptor, err)
		}
		return types.NewLiteral(dt), nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, fmt.Errorf("%w: composite descriptor needs exactly one key", ErrBadDescriptor)
		}
		kind, value := node.Content[0].Value, node.Content[1]
		switch kind {
		case "list":
			item, err := ParseType(value)
			if err != nil {
				return nil, err
			}
			return types.NewList(item), nil
		case "tuple":
			item, err := ParseType(value)
			if err != nil {
				return nil, err
			}
			return types.NewTuple(item), nil
		case "array":
			return parseArray(value)
		case "frame":
			return parseFrame(value)
		default:
			return nil, fmt.Errorf("%w: unknown kind %q", ErrBadDescriptor, kind)
		}

	default:
		return nil, fmt.Errorf("%w: unexpected node kind", ErrBadDescriptor)
	}
}

// parseArray parses {dtype: <name>, shape: [dims...]}; shape is optional
// and a null dimension is the wildcard.
func parseArray(node *yaml.Node) (types.Type, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: array descriptor must be a mapping", ErrBadDescriptor)
	}
	elem := types.Invalid
	var dims []int
	haveShape := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "dtype":
			dt, err := types.ParseDType(value.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadDescriptor, err)
			}
			elem = dt
		case "shape":
			parsed, err := parseShape(value)
			if err != nil {
				return nil, err
			}
			dims, haveShape = parsed, true
		default:
			return nil, fmt.Errorf("%w: unknown array key %q", ErrBadDescriptor, key)
		}
	}
	if elem == types.Invalid {
		return nil, fmt.Errorf("%w: array descriptor needs a dtype", ErrBadDescriptor)
	}
	if !haveShape {
		return types.NewArray(elem), nil
	}
	return types.NewArray(elem, dims...), nil
}

func parseShape(node *yaml.Node) ([]int, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: shape must be a sequence", ErrBadShape)
	}
	dims := make([]int, len(node.Content))
	for i, dim := range node.Content {
		if dim.Tag == "!!null" {
			dims[i] = types.DimAny
			continue
		}
		var d int
		if err := dim.Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrBadShape, d)
		}
		dims[i] = d
	}
	return dims, nil
}

// parseFrame parses a column-name to column-type mapping into a
// backend-agnostic DataFrame type.
func parseFrame(node *yaml.Node) (types.Type, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: frame descriptor must be a mapping", ErrBadDescriptor)
	}
	cols := map[string]types.Type{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		t, err := ParseType(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols[name] = t
	}
	return types.NewDataFrame(nil, cols), nil
}
