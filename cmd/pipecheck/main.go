// Package main provides the pipecheck CLI, the command-line surface for
// validating pipeline contracts and schemas before any data is touched.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
