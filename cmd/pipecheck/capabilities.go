// Capabilities command lists the registered backend capabilities.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pipeflow/pkg/capability"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List the backends available for requirement checks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := capability.Names()

		if flagJSON {
			return printJSON(names)
		}

		if len(names) == 0 {
			fmt.Println("No capabilities registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CAPABILITY\tRESOLVABLE")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%v\n", name, capability.Resolvable(name))
		}
		return w.Flush()
	},
}
