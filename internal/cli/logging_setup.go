package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/config"
)

// setupLogging configures logging from the loaded config and CLI flags and
// attaches the logger to the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) {
	debug, _ := cmd.Flags().GetBool("debug")

	if err := config.SetupLogging(cfg, debug); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open log file: %v\n", err)
	}
	logger = config.GetLogger().With().Str("component", "cli").Logger()

	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
}

// cleanupLogging logs the command duration and closes the log file.
func cleanupLogging(cmd *cobra.Command, elapsed time.Duration) error {
	logger.Debug().
		Str("command", cmd.Name()).
		Dur("duration", elapsed).
		Msg("command finished")
	config.CloseLogFile()
	return nil
}
