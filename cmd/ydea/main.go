// Command ydea converts the YDEA Dura-Europos spreadsheet export into
// Pleiades JSON and loads that JSON into a local content store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isawnyu/pleiades-dura-converter/internal/config"
	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

var (
	// Global flags
	configPath  string
	logLevel    string
	verbose     bool
	veryVerbose bool

	// Loaded configuration, flags applied
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ydea",
	Short: "Convert YDEA survey data to Pleiades JSON and load it",
	Long: `ydea turns the Yale Dura-Europos Archive spreadsheet export into
places that follow the Pleiades gazetteer schema, and loads those places
into a content store.

  ydea convert export.csv places.json
  ydea validate places.json
  ydea load places.json --workflow review --creators achen,jdoe`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		c.Logging.Level = resolveLevel(c.Logging.Level)
		if err := c.Validate(); err != nil {
			return err
		}
		if err := logging.Initialize(logging.Config{
			Level:  c.Logging.Level,
			Format: c.Logging.Format,
			File:   c.Logging.File,
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = c
		logger = logging.Get(logging.CategoryBoot).Desugar()
		logging.Boot("ydea %s: config %s, log level %s", version, configPath, c.Logging.Level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ydea %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ydea.yaml", "Config file (missing file means defaults)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (log level info)")
	rootCmd.PersistentFlags().BoolVarP(&veryVerbose, "veryverbose", "w", false, "Very verbose output (log level debug)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveLevel applies the level flags over the configured level.
func resolveLevel(configured string) string {
	switch {
	case veryVerbose:
		return "debug"
	case verbose:
		return "info"
	case logLevel != "":
		return logLevel
	case configured != "":
		return configured
	}
	return "warning"
}

// currentConfig returns the loaded config, or defaults when a command runs
// without the root pre-run hook.
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
