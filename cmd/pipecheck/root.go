// Root command for the pipecheck CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pipeflow/internal/paths"
	"github.com/mesh-intelligence/pipeflow/pkg/pipeflow"

	// Backends register their adapters and capabilities on import.
	_ "github.com/mesh-intelligence/pipeflow/pkg/arrowframe"
	_ "github.com/mesh-intelligence/pipeflow/pkg/frame"
	_ "github.com/mesh-intelligence/pipeflow/pkg/sqlframe"
	_ "github.com/mesh-intelligence/pipeflow/pkg/tensor"
)

// Exit codes: 0 clean, 1 user error or failed check, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
)

// configStrict holds the strict value loaded from config.yaml. Set by
// PersistentPreRunE so all subcommands can use it.
var configStrict bool

var rootCmd = &cobra.Command{
	Use:     "pipecheck",
	Short:   "Pipecheck validates pipeline contracts and schemas",
	Version: pipeflow.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configStrict = cfg.GetBool(cfgKeyStrict)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(capabilitiesCmd)
}

// resolveConfigDir returns the configuration directory with precedence
// --config-dir flag > PIPECHECK_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
