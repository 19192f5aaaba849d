// Describe command prints a contract in resolved form.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pipeflow/pkg/pipe"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

var describeCmd = &cobra.Command{
	Use:   "describe <contract.yaml>",
	Short: "Display a contract with resolved types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := loadContract(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "describe:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printContractJSON(contract)
		}
		printContract(contract)
		return nil
	},
}

func printContract(c pipe.Contract) {
	printSection("fit_data", c.FitData)
	printSection("transform_data", c.TransformData)
	printSection("fit_parameters", c.FitParameters)
	printSection("fitted_parameters", c.FittedParameters)
	if c.TransformModifies.Len() > 0 {
		fmt.Println("transform_modifies:")
		for _, field := range c.TransformModifies.Fields() {
			for _, op := range c.TransformModifies.Ops(field) {
				fmt.Printf("  %s: %s\n", field, op)
			}
		}
	}
	if len(c.Requirements) > 0 {
		fmt.Printf("requirements: %s\n", strings.Join(c.Requirements, ", "))
	}
}

func printSection(name string, s types.Schema) {
	if len(s) == 0 {
		return
	}
	fmt.Printf("%s:\n", name)
	for _, k := range s.Keys() {
		fmt.Printf("  %s: %s\n", k, s[k])
	}
}

func printContractJSON(c pipe.Contract) error {
	obj := map[string]any{}
	for name, s := range map[string]types.Schema{
		"fit_data":          c.FitData,
		"transform_data":    c.TransformData,
		"fit_parameters":    c.FitParameters,
		"fitted_parameters": c.FittedParameters,
	} {
		if len(s) == 0 {
			continue
		}
		section := make(map[string]string, len(s))
		for k, t := range s {
			section[k] = t.String()
		}
		obj[name] = section
	}
	if c.TransformModifies.Len() > 0 {
		obj["transform_modifies"] = c.TransformModifies.String()
	}
	if len(c.Requirements) > 0 {
		obj["requirements"] = c.Requirements
	}
	return printJSON(obj)
}
