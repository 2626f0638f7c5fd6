package main

import (
	"fmt"
	"os"

	"github.com/isawnyu/pleiades-dura-converter/internal/convert"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	convertEncoding   string
	convertWorkers    int
	convertNoValidate bool
)

// convertCmd converts a YDEA CSV export to Pleiades JSON
var convertCmd = &cobra.Command{
	Use:   "convert INFILE OUTFILE",
	Short: "Convert a YDEA CSV export to Pleiades JSON",
	Long: `Reads the spreadsheet export, builds one Pleiades place per row
(names, locations, references and connections) and writes the places as a
JSON array.

Geometry that cannot be used is logged and skipped. Title collisions,
invalid geometry, unknown accuracy documents and connection targets that
match no place stop the conversion.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertEncoding, "encoding", "", "Input encoding: utf-8, utf-8-sig, windows-1252, latin-1 (default from config)")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 0, "Parallel row builders (default from config)")
	convertCmd.Flags().BoolVar(&convertNoValidate, "no-validate", false, "Skip struct and schema validation of the output")
}

// runConvert reads INFILE, converts every row and writes OUTFILE.
func runConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	c := currentConfig()
	in, out := args[0], args[1]

	encoding := c.Input.Encoding
	if convertEncoding != "" {
		encoding = convertEncoding
	}
	workers := c.Convert.Workers
	if convertWorkers > 0 {
		workers = convertWorkers
	}
	validate := c.Convert.Validate && !convertNoValidate

	table, err := ydea.ReadFile(in, ydea.Options{
		Encoding:  encoding,
		Delimiter: c.Input.DelimiterRune(),
	})
	if err != nil {
		return err
	}
	logger.Info("Read export", zap.String("file", in), zap.Int("rows", len(table.Rows)))

	places, err := convert.New(convert.Options{
		Workers:  workers,
		Validate: validate,
	}).Convert(ctx, table)
	if err != nil {
		return err
	}

	if err := pleiades.WriteFile(out, places, c.Output.Indent); err != nil {
		return err
	}

	if validate {
		data, err := os.ReadFile(out)
		if err != nil {
			return fmt.Errorf("failed to re-read output: %w", err)
		}
		if err := pleiades.ValidateDocument(data); err != nil {
			return fmt.Errorf("%s: %w", out, err)
		}
	}

	counts := convert.Count(places)
	logger.Info("Wrote places",
		zap.String("file", out),
		zap.Int("places", counts.Places),
		zap.Int("names", counts.Names),
		zap.Int("locations", counts.Locations),
		zap.Int("references", counts.References),
		zap.Int("connections", counts.Connections),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d places to %s\n", counts.Places, out)
	return nil
}
