// Package cmd provides the CLI commands for folio.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atelierhq/folio/internal/config"
	"github.com/atelierhq/folio/internal/logging"
	"github.com/atelierhq/folio/pkg/version"
)

// Persistent flags shared by all commands.
var (
	configPath string
	noColor    bool
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the folio CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Hybrid search over a portfolio catalog",
		Long: `Folio serves a personal portfolio site with hybrid search:
four matching strategies (semantic, keyword, fuzzy, metadata) merge into
one weighted ranking, with multimodal text+image search on the side.

Run 'folio serve' to start the site, or 'folio search' to query from
the terminal.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("folio version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "folio.yaml", "Config file path")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging installs the default logger. CLI commands log to stderr so
// stdout stays clean for results; --debug lowers the level.
func setupLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg.Level = "debug"
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	return nil
}

// loadConfig loads the layered configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
