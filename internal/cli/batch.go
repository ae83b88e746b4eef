package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/engine/batch"
)

// ErrNoRequests is returned when a batch file holds no requests.
var ErrNoRequests = errors.New("batch file contains no requests")

// NewBatchCmd creates the batch command, which runs many requests from a file.
func NewBatchCmd() *cobra.Command {
	var (
		file        string
		concurrency int
		noLog       bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run many calculator requests from a JSON file",
		Long: `Runs every request in a JSON file and prints one result per request.

The file holds an array of requests:

  [
    {"calculator_id": "abv", "params": {"og": "1.050", "fg": "1.010"}},
    {"calculator_id": "brix_to_sg", "params": {"brix": "20"}}
  ]

Requests run in parallel, in batches of 100. A failing request is reported in
its row and never stops the others. Use "-" to read the file from stdin.`,
		Example: `  # Run a batch file
  mazerion batch --file requests.json

  # Stream results as NDJSON with four workers
  mazerion batch --file requests.json --concurrency 4 --output ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}
			if concurrency < 0 {
				return fmt.Errorf("concurrency must be >= 0, got %d", concurrency)
			}

			reqs, err := readRequests(cmd, file)
			if err != nil {
				return err
			}

			var opts []engine.Option
			if concurrency > 0 {
				opts = append(opts, engine.WithConcurrency(concurrency))
			}
			eng, closeFn, err := sessionFrom(cmd).newEngine(!noLog, opts...)
			if err != nil {
				return err
			}
			defer closeFn()

			var progress batch.ProgressFunc
			if isTerminal(os.Stderr) && len(reqs) > engine.MaxBatchRequests {
				progress = progressPrinter(cmd.ErrOrStderr())
			}

			run, err := eng.RunChunked(commandContext(cmd), reqs, progress)
			if err != nil {
				return fmt.Errorf("running batch: %w", err)
			}
			return engine.RenderBatch(cmd.OutOrStdout(), format, run)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file of requests, or - for stdin")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel requests (0 = number of CPUs)")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "do not save the results to the logbook")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readRequests decodes the request array from path, or from the command's
// stdin when path is "-".
func readRequests(cmd *cobra.Command, path string) ([]engine.Request, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var reqs []engine.Request
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	if len(reqs) == 0 {
		return nil, ErrNoRequests
	}
	return reqs, nil
}

// progressPrinter returns a progress callback that redraws one status line on w.
func progressPrinter(w io.Writer) batch.ProgressFunc {
	return func(s batch.Snapshot) {
		_, _ = fmt.Fprintf(w, "\rprocessed %d/%d requests (%.0f%%, %s left)   ",
			s.DoneItems, s.TotalItems, s.Percent(), s.Remaining().Round(time.Second))
		if s.Complete() {
			_, _ = fmt.Fprintln(w)
		}
	}
}
