package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness.

This includes:
- YAML syntax
- The version field, which must be a semantic version
- Precision settings between 0 and 8 decimals
- Logging level and default output format
- Logbook path and retention`,
		Example: `  # Validate current configuration
  mazerion config validate

  # Validate and show detailed information
  mazerion config validate --verbose`,
		Annotations: map[string]string{annotationLenientConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate reports the load error tolerated by the session, if any.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	s := sessionFrom(cmd)
	if s.loadErr != nil {
		return fmt.Errorf("configuration validation failed: %w", s.loadErr)
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		cmd.Printf("No configuration file at %s, using defaults\n", s.path)
	}
	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, s.cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Version: %s\n", cfg.Version)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Precision: sg=%d ph=%d brix=%d\n",
		cfg.Precision.SGDecimals, cfg.Precision.PHDecimals, cfg.Precision.BrixDecimals)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	if !cfg.Logbook.Enabled {
		cmd.Println("  Logbook: disabled")
		return
	}
	cmd.Printf("  Logbook: %s\n", cfg.Logbook.Path)
	if cfg.Logbook.RetentionDays == 0 {
		cmd.Println("  Retention: forever")
	} else {
		cmd.Printf("  Retention: %d days\n", cfg.Logbook.RetentionDays)
	}
}
