package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the mazerion CLI.
// It loads the configuration, wires up logging, and registers every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var started time.Time

	cmd := &cobra.Command{
		Use:           "mazerion",
		Short:         "Brewing and mead-making calculators",
		Long:          "Mazerion: precise, validated brewing calculations for mead, wine, cider and beer",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			started = time.Now()
			return setupSession(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, time.Since(started))
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $MAZERION_CONFIG or ~/.mazerion/config.yaml)")
	cmd.PersistentFlags().String("log-file", "", "also write logs to this file")

	cmd.AddCommand(
		NewListCmd(), NewDescribeCmd(), NewRunCmd(), NewBatchCmd(), NewConvertCmd(),
		newLogCmd(), newConfigCmd(), NewBrowseCmd(), NewVersionCmd(ver),
	)

	return cmd
}

const rootCmdExample = `  # List every calculator
  mazerion list

  # Find the mead style calculators
  mazerion list --category "Mead Styles"

  # Calculate ABV from original and final gravity
  mazerion run abv --param og=1.050 --param fg=1.010

  # Convert a reading with a measurement flag
  mazerion run sg_to_brix --sg 1.083

  # Run many requests from a file
  mazerion batch --file requests.json --output ndjson

  # Convert between units
  mazerion convert 5 gallons liters

  # Show the last 20 logged calculations
  mazerion log list --limit 20

  # Create the configuration file
  mazerion config init`

// newLogCmd creates the log command group for the calculation logbook.
func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "log", Short: "Calculation logbook commands"}
	cmd.AddCommand(NewLogListCmd(), NewLogPruneCmd(), NewLogExportCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd(), NewConfigWatchCmd(),
	)
	return cmd
}
