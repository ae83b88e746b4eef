package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/tui"
)

// ErrInvalidParam is returned for a --param value that is not key=value.
var ErrInvalidParam = errors.New("invalid parameter, expected key=value")

// NewRunCmd creates the run command, which executes one calculator.
func NewRunCmd() *cobra.Command {
	var (
		params []string
		noLog  bool
		output string
	)
	measurements := make(map[string]*string, len(engine.MeasurementKeys))

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a calculator",
		Long: `Runs one calculator with the given parameters and prints the result.

Parameters are passed as --param key=value. The measurement flags (--sg, --ph,
--brix, --plato, --celsius, --fahrenheit) are shorthand for the matching
parameter and are range checked before the calculator runs.

Successful runs are saved to the logbook unless --no-log is set or the
logbook is disabled in the configuration.`,
		Example: `  # Alcohol by volume
  mazerion run abv --param og=1.050 --param fg=1.010

  # Refractometer reading to gravity
  mazerion run brix_to_sg --brix 20

  # Sulfite addition as JSON, without logging
  mazerion run sulfite --ph 3.4 --param volume=19 --param target_free_so2=50 --no-log -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}

			req := engine.Request{CalculatorID: args[0]}
			req.Params, err = parseParams(params)
			if err != nil {
				return err
			}
			for key, value := range measurements {
				if !cmd.Flags().Changed(key) {
					continue
				}
				if _, dup := req.Params[key]; dup {
					return fmt.Errorf("--%s conflicts with --param %s=...", key, key)
				}
				req.Params[key] = *value
			}

			eng, closeFn, err := sessionFrom(cmd).newEngine(!noLog)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := eng.Run(commandContext(cmd), req)
			if err != nil {
				return fmt.Errorf("running %s: %w", req.CalculatorID, err)
			}
			return renderResponse(cmd, format, resp)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "calculator parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "do not save the result to the logbook")
	addOutputFlag(cmd, &output)

	keys := make([]string, 0, len(engine.MeasurementKeys))
	for key := range engine.MeasurementKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		measurements[key] = cmd.Flags().String(key, "", fmt.Sprintf("%s measurement", engine.MeasurementKeys[key]))
	}

	return cmd
}

// renderResponse styles table output on a color terminal and falls back to
// the plain renderers everywhere else.
func renderResponse(cmd *cobra.Command, format engine.OutputFormat, resp engine.Response) error {
	out := cmd.OutOrStdout()
	if format != engine.OutputTable || out != os.Stdout || tui.DetectOutputMode(false) == tui.OutputModePlain {
		return engine.RenderResponse(out, format, resp)
	}
	width, _ := tui.TerminalSize()
	_, err := fmt.Fprintln(out, tui.RenderResult(resp, width))
	return err
}

// parseParams turns key=value pairs into a request param map. Keys are
// trimmed; values are kept verbatim so calculators see what the user typed.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParam, pair)
		}
		if _, dup := params[key]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", key)
		}
		params[key] = value
	}
	return params, nil
}
