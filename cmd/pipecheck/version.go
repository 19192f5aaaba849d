// Version command for the pipecheck CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pipeflow/pkg/pipeflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pipecheck version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pipecheck", pipeflow.Version)
	},
}
