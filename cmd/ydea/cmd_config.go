package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd writes the effective configuration
var configCmd = &cobra.Command{
	Use:   "config PATH",
	Short: "Write the effective configuration to a YAML file",
	Long: `Writes the configuration in effect (defaults, then the --config file,
then environment overrides and flags) to PATH. The result can be edited
and passed back with --config.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfig,
}

// runConfig saves the current configuration to PATH.
func runConfig(cmd *cobra.Command, args []string) error {
	if err := currentConfig().Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration to %s\n", args[0])
	return nil
}
