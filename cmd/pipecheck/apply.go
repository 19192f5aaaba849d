// Apply command computes the schema a contract's transform produces.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pipeflow/pkg/pipe"
)

var (
	applyContract string
	applySchema   string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a contract's transform to a schema",
	Long: `Apply checks the input schema against the contract's transform
declaration and, when it passes, prints the schema the transform would
produce. No data is touched.

Example:
  pipecheck apply --contract standardize.yaml --schema batch.yaml
  pipecheck apply --contract standardize.yaml --schema batch.yaml --json`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyContract, "contract", "", "contract YAML file (required)")
	applyCmd.Flags().StringVar(&applySchema, "schema", "", "input schema YAML file (required)")
	applyCmd.MarkFlagRequired("contract")
	applyCmd.MarkFlagRequired("schema")
}

func runApply(cmd *cobra.Command, args []string) error {
	contract, err := loadContract(applyContract)
	if err != nil {
		fmt.Fprintln(os.Stderr, "apply:", err)
		os.Exit(exitSysError)
	}

	schema, err := loadSchema(applySchema)
	if err != nil {
		fmt.Fprintln(os.Stderr, "apply:", err)
		os.Exit(exitSysError)
	}

	base := pipe.NewBase("contract", contract)
	out, err := base.TransformSchema(schema)
	if err != nil {
		fmt.Fprintln(os.Stderr, "violation:", err)
		os.Exit(exitUserError)
	}

	return printSchema(out)
}
