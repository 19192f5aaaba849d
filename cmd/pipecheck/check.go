// Check command validates a candidate schema against a contract.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
	"github.com/mesh-intelligence/pipeflow/pkg/pipe"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

var (
	checkContract string
	checkData     string
	checkParams   string
	checkMode     string
	checkStrict   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a data schema against a contract",
	Long: `Check validates a candidate data schema (and, for fit, a parameter
schema) against a contract file without touching any data.

Data is open-world: fields beyond the contract's declarations pass.
Fit parameters are closed-world: passed names must match the declared
names exactly. Declared capability requirements are verified against
the registered backends.

Example:
  pipecheck check --contract standardize.yaml --data batch.yaml
  pipecheck check --contract standardize.yaml --data batch.yaml --mode fit --params params.yaml
  pipecheck check --contract standardize.yaml --data batch.yaml --strict --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkContract, "contract", "", "contract YAML file (required)")
	checkCmd.Flags().StringVar(&checkData, "data", "", "data schema YAML file (required)")
	checkCmd.Flags().StringVar(&checkParams, "params", "", "parameter schema YAML file (fit mode)")
	checkCmd.Flags().StringVar(&checkMode, "mode", "transform", "which operation to check: fit or transform")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "stop at the first violation")
	checkCmd.MarkFlagRequired("contract")
	checkCmd.MarkFlagRequired("data")
}

func runCheck(cmd *cobra.Command, args []string) error {
	contract, err := loadContract(checkContract)
	if err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(exitSysError)
	}

	data, err := loadSchema(checkData)
	if err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(exitSysError)
	}

	params := types.Schema{}
	if checkParams != "" {
		if params, err = loadSchema(checkParams); err != nil {
			fmt.Fprintln(os.Stderr, "check:", err)
			os.Exit(exitSysError)
		}
	}

	strict := checkStrict || configStrict
	base := pipe.NewBase("contract", contract)

	var vs []violation.Violation
	switch checkMode {
	case "fit":
		vs, err = base.CheckFit(schemaAsData(data), schemaAsData(params), strict)
	case "transform":
		vs, err = base.CheckTransform(schemaAsData(data), strict)
	default:
		return fmt.Errorf("unknown mode %q (valid: fit, transform)", checkMode)
	}
	if err != nil {
		// Strict mode surfaces the first violation as the error.
		fmt.Fprintln(os.Stderr, "violation:", err)
		os.Exit(exitUserError)
	}

	vs = append(vs, base.CheckRequirements(capability.Resolvable)...)
	os.Exit(printViolations(vs))
	return nil
}
