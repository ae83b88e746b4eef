package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/mazerion/internal/engine"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after defaults and environment overrides.
func NewConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  mazerion config show
  mazerion config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := sessionFrom(cmd).cfg
			out := cmd.OutOrStdout()

			// YAML unless a JSON format is asked for explicitly.
			if output == "" {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("encoding config: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			format, err := engine.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if format == engine.OutputTable {
				return fmt.Errorf("config show supports json and ndjson, got %q", output)
			}
			encoder := json.NewEncoder(out)
			if format == engine.OutputJSON {
				encoder.SetIndent("", "  ")
			}
			return encoder.Encode(cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "json or ndjson (default YAML)")
	return cmd
}
