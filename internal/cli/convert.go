package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/measure"
)

// conversion is the structured output of the convert command.
type conversion struct {
	From    measure.Measurement `json:"from"`
	To      measure.Measurement `json:"to"`
	Display string              `json:"display"`
}

// NewConvertCmd creates the convert command for unit conversions.
func NewConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between units",
		Long: `Converts a value between units of the same kind: volume (gallons, liters,
quarts, pints, fluid_ounces, milliliters), mass (grams, kilograms, ounces,
pounds) and temperature (celsius, fahrenheit). Units are given by key or symbol.`,
		Example: `  mazerion convert 5 gallons liters
  mazerion convert 68 fahrenheit celsius
  mazerion convert 2.5 lb kg --output json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}

			from, err := measure.ParseUnit(args[1])
			if err != nil {
				return err
			}
			to, err := measure.ParseUnit(args[2])
			if err != nil {
				return err
			}
			m, err := measure.Parse(args[0], from)
			if err != nil {
				return err
			}
			converted, err := measure.Convert(m, to)
			if err != nil {
				return err
			}

			formatter := sessionFrom(cmd).cfg.Formatter()
			out := conversion{From: m, To: converted, Display: formatter.Format(converted)}

			if format == engine.OutputTable {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", formatter.Format(m), out.Display)
				return err
			}
			data, err := json.Marshal(out)
			if err != nil {
				return fmt.Errorf("encoding conversion: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}
