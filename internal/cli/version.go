package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/pkg/version"
)

// NewVersionCmd creates the version command. ver is the version the root
// command was created with.
func NewVersionCmd(ver string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}

			info := version.InfoFor(ver)

			if format != engine.OutputTable {
				return engine.WriteNDJSON(cmd.OutOrStdout(), []version.Info{info})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "mazerion %s (commit %s, built %s, %s)\n",
				info.Version, info.GitCommit, info.BuildDate, info.GoVersion)
			return err
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}
