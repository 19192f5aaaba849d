// Shared helpers for pipecheck CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pipeflow/internal/schemayaml"
	"github.com/mesh-intelligence/pipeflow/pkg/ops"
	"github.com/mesh-intelligence/pipeflow/pkg/pipe"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// contractDoc is the YAML shape of a contract file. Every section is
// optional; an absent section declares nothing.
type contractDoc struct {
	FitData           yaml.Node `yaml:"fit_data"`
	TransformData     yaml.Node `yaml:"transform_data"`
	FitParameters     yaml.Node `yaml:"fit_parameters"`
	FittedParameters  yaml.Node `yaml:"fitted_parameters"`
	TransformModifies yaml.Node `yaml:"transform_modifies"`
	Requirements      []string  `yaml:"requirements"`
}

// loadContract reads and parses a contract YAML file.
func loadContract(path string) (pipe.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipe.Contract{}, fmt.Errorf("read contract: %w", err)
	}

	var doc contractDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return pipe.Contract{}, fmt.Errorf("parse contract: %w", err)
	}

	var c pipe.Contract
	if c.FitData, err = schemayaml.ParseSchemaNode(&doc.FitData); err != nil {
		return pipe.Contract{}, fmt.Errorf("fit_data: %w", err)
	}
	if c.TransformData, err = schemayaml.ParseSchemaNode(&doc.TransformData); err != nil {
		return pipe.Contract{}, fmt.Errorf("transform_data: %w", err)
	}
	if c.FitParameters, err = schemayaml.ParseSchemaNode(&doc.FitParameters); err != nil {
		return pipe.Contract{}, fmt.Errorf("fit_parameters: %w", err)
	}
	if c.FittedParameters, err = schemayaml.ParseSchemaNode(&doc.FittedParameters); err != nil {
		return pipe.Contract{}, fmt.Errorf("fitted_parameters: %w", err)
	}
	if c.TransformModifies, err = parseModifies(&doc.TransformModifies); err != nil {
		return pipe.Contract{}, fmt.Errorf("transform_modifies: %w", err)
	}
	c.Requirements = doc.Requirements
	return c, nil
}

// parseModifies parses the transform_modifies section. Each field maps
// to the scalar "drop" or to {set: <type descriptor>}.
func parseModifies(node *yaml.Node) (*ops.Changes, error) {
	if node == nil || node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of field names to operations")
	}

	changes := ops.NewChanges()
	for i := 0; i+1 < len(node.Content); i += 2 {
		field, value := node.Content[i].Value, node.Content[i+1]
		op, err := parseOperation(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		changes.Add(field, op)
	}
	return changes, nil
}

func parseOperation(node *yaml.Node) (ops.Operation, error) {
	if node.Kind == yaml.ScalarNode && node.Value == "drop" {
		return ops.NewDrop(), nil
	}
	if node.Kind == yaml.MappingNode && len(node.Content) == 2 && node.Content[0].Value == "set" {
		t, err := schemayaml.ParseType(node.Content[1])
		if err != nil {
			return nil, err
		}
		return ops.NewSet(t), nil
	}
	return nil, fmt.Errorf("operation must be \"drop\" or {set: <type>}")
}

// loadSchema reads and parses a schema YAML file.
func loadSchema(path string) (types.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	schema, err := schemayaml.ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}

// schemaAsData presents a schema as a candidate data map so contract
// checks run in type mode.
func schemaAsData(s types.Schema) map[string]any {
	data := make(map[string]any, len(s))
	for k, t := range s {
		data[k] = t
	}
	return data
}

// violationReport is the JSON shape of one reported violation.
type violationReport struct {
	Message string   `json:"message"`
	Trail   []string `json:"trail"`
}

// printViolations writes violations to stderr, or to stdout as JSON when
// --json is set. It returns the exit code for the check.
func printViolations(vs []violation.Violation) int {
	if flagJSON {
		reports := make([]violationReport, len(vs))
		for i, v := range vs {
			reports[i] = violationReport{Message: v.Error(), Trail: v.Trail()}
		}
		if err := printJSON(reports); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitSysError
		}
	} else {
		for _, v := range vs {
			fmt.Fprintln(os.Stderr, "violation:", v.Error())
		}
		fmt.Fprintf(os.Stderr, "%d violation(s)\n", len(vs))
	}
	if len(vs) == 0 {
		return exitSuccess
	}
	return exitUserError
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// printSchema writes a schema as sorted "field: type" lines, or as a
// JSON object when --json is set.
func printSchema(s types.Schema) error {
	if flagJSON {
		obj := make(map[string]string, len(s))
		for k, t := range s {
			obj[k] = t.String()
		}
		return printJSON(obj)
	}

	var sb strings.Builder
	for _, k := range s.Keys() {
		fmt.Fprintf(&sb, "%s: %s\n", k, s[k])
	}
	fmt.Print(sb.String())
	return nil
}
