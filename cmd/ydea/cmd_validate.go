package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// validateCmd checks a Pleiades JSON file against the embedded schema
var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a Pleiades JSON file against the places schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

// runValidate reports every schema violation in FILE.
func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	err = pleiades.ValidateDocument(data)
	var schemaErr *pleiades.SchemaError
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)
		return nil
	case errors.As(err, &schemaErr):
		for _, v := range schemaErr.Violations {
			loc := v.Path
			if loc == "" {
				loc = "/"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", loc, v.Message)
		}
		logger.Warn("Schema violations", zap.String("file", path), zap.Int("count", len(schemaErr.Violations)))
		return fmt.Errorf("%s: %d schema violation(s)", path, len(schemaErr.Violations))
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
