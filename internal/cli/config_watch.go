package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/config"
)

// NewConfigWatchCmd creates the config watch command, which reloads the
// configuration file whenever it changes until interrupted.
func NewConfigWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the configuration file and report each reload",
		Long: `Watches the configuration file and reloads it on every save. Valid
changes are applied to the running process and summarized; invalid ones are
logged and ignored. Stop with Ctrl+C.`,
		Example: `  mazerion config watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			cmd.Printf("Watching %s\n", s.path)

			return config.Watch(commandContext(cmd), s.path, func(cfg *config.Config) {
				config.SetGlobalConfig(cfg)
				config.SetLogLevel(cfg.Logging.Level)
				s.cfg = cfg
				cmd.Printf("Reloaded: format=%s level=%s logbook=%t\n",
					cfg.Output.DefaultFormat, cfg.Logging.Level, cfg.Logbook.Enabled)
			}, config.WithWatchLogger(logger))
		},
	}
	return cmd
}
