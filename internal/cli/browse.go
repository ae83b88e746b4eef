package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/tui"
)

// ErrNotInteractive is returned by browse when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("browse needs an interactive terminal, use 'mazerion list' and 'mazerion run' instead")

// NewBrowseCmd creates the browse command, an interactive calculator browser.
func NewBrowseCmd() *cobra.Command {
	var noLog bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and run calculators interactively",
		Long: `Opens an interactive browser over every calculator. Filter the table with /,
open a calculator with enter, then type its parameters as key=value pairs
and press enter to run it.`,
		Example: `  mazerion browse`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tui.DetectOutputMode(false) != tui.OutputModeInteractive {
				return ErrNotInteractive
			}

			eng, closeFn, err := sessionFrom(cmd).newEngine(!noLog)
			if err != nil {
				return err
			}
			defer closeFn()

			model := tui.NewBrowserModel(commandContext(cmd), eng.ListCalculators(), eng.Run)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLog, "no-log", false, "do not save results to the logbook")
	return cmd
}
