package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/engine"
)

// NewListCmd creates the list command, which prints the calculator catalog.
func NewListCmd() *cobra.Command {
	var (
		category string
		search   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available calculators",
		Example: `  # List everything
  mazerion list

  # Only the finishing calculators
  mazerion list --category Finishing

  # Search ids, names and descriptions
  mazerion list --search honey --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}
			if err = checkCategory(category); err != nil {
				return err
			}

			eng, closeFn, err := sessionFrom(cmd).newEngine(false)
			if err != nil {
				return err
			}
			defer closeFn()

			infos := eng.FindCalculators(category, search)
			return engine.RenderCalculators(cmd.OutOrStdout(), format, infos)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list calculators in this category")
	cmd.Flags().StringVar(&search, "search", "", "only list calculators matching this term")
	addOutputFlag(cmd, &output)

	return cmd
}

// NewDescribeCmd creates the describe command, which prints one calculator.
func NewDescribeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "describe <id>",
		Short:   "Show the details of a calculator",
		Example: `  mazerion describe refractometer`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}

			eng, closeFn, err := sessionFrom(cmd).newEngine(false)
			if err != nil {
				return err
			}
			defer closeFn()

			info, err := eng.Describe(args[0])
			if err != nil {
				return err
			}
			return engine.RenderInfo(cmd.OutOrStdout(), format, info)
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

// checkCategory accepts an empty category or any known one, ignoring case.
func checkCategory(category string) error {
	if category == "" {
		return nil
	}
	if slices.ContainsFunc(calc.Categories(), func(c string) bool { return strings.EqualFold(c, category) }) {
		return nil
	}
	return calc.ValidateCategory(category)
}
