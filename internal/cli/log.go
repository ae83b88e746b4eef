package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/engine/batch"
	"github.com/rshade/mazerion/internal/logbook"
)

// ErrInvalidAge is returned for an --older-than or --since value that cannot be parsed.
var ErrInvalidAge = errors.New("invalid age, use a number of days like 30d or a duration like 12h")

const (
	hoursPerDay = 24

	// exportChunkSize is the number of entries encoded per export chunk.
	exportChunkSize = 500
	// exportWorkers bounds the chunks encoded at once.
	exportWorkers = 4
)

// exportPageSize is the number of entries read from the logbook per query.
var exportPageSize = logbook.MaxLimit //nolint:gochecknoglobals // Lowered by tests.

// NewLogListCmd creates the log list command.
func NewLogListCmd() *cobra.Command {
	var (
		calculator string
		limit      int
		since      string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged calculations, newest first",
		Example: `  # The last 50 calculations
  mazerion log list

  # ABV calculations from the last week
  mazerion log list --calculator abv --since 7d`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd, output)
			if err != nil {
				return err
			}
			if limit < 0 || limit > logbook.MaxLimit {
				return fmt.Errorf("limit must be between 0 and %d, got %d", logbook.MaxLimit, limit)
			}
			filter := logbook.Filter{CalculatorID: calculator, Limit: limit}
			if since != "" {
				age, ageErr := parseAge(since)
				if ageErr != nil {
					return ageErr
				}
				filter.Since = time.Now().Add(-age)
			}

			store, err := sessionFrom(cmd).openLogbook()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(commandContext(cmd), filter)
			if err != nil {
				return err
			}
			return engine.RenderEntries(cmd.OutOrStdout(), format, entries)
		},
	}

	cmd.Flags().StringVar(&calculator, "calculator", "", "only show this calculator")
	cmd.Flags().IntVar(&limit, "limit", logbook.DefaultLimit, "maximum entries to show")
	cmd.Flags().StringVar(&since, "since", "", "only show entries newer than this age (e.g. 7d, 12h)")
	addOutputFlag(cmd, &output)

	return cmd
}

// NewLogPruneCmd creates the log prune command.
func NewLogPruneCmd() *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old logged calculations",
		Long: `Deletes logbook entries older than --older-than. Without the flag the
configured logbook.retention_days is used; a retention of 0 keeps everything.`,
		Example: `  # Delete entries older than 30 days
  mazerion log prune --older-than 30d

  # Apply the configured retention
  mazerion log prune`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)

			age := s.cfg.Retention()
			if olderThan != "" {
				var err error
				if age, err = parseAge(olderThan); err != nil {
					return err
				}
			}
			if age <= 0 {
				cmd.Println("Retention is disabled, nothing to prune")
				return nil
			}

			store, err := s.openLogbook()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.PruneOlderThan(commandContext(cmd), age)
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d entries older than %s\n", removed, formatAge(age))
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "", "delete entries older than this age (e.g. 30d, 12h)")
	return cmd
}

// NewLogExportCmd creates the log export command, which writes the logbook as NDJSON.
func NewLogExportCmd() *cobra.Command {
	var (
		calculator string
		since      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export logged calculations as NDJSON",
		Example: `  # Everything, newest first
  mazerion log export > logbook.ndjson

  # Only pyment calculations from the last 90 days
  mazerion log export --calculator pyment --since 90d`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := logbook.Filter{CalculatorID: calculator, Limit: exportPageSize}
			if since != "" {
				age, err := parseAge(since)
				if err != nil {
					return err
				}
				filter.Since = time.Now().Add(-age)
			}

			store, err := sessionFrom(cmd).openLogbook()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := batch.NewProcessor[logbook.Entry](exportChunkSize)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()
			var total, pages int
			err = store.Pages(ctx, filter, func(page []logbook.Entry) error {
				pages++
				total += len(page)
				return exportPage(ctx, p, out, page)
			})
			if err != nil {
				return fmt.Errorf("exporting logbook: %w", err)
			}
			logger.Debug().Int("entries", total).Int("pages", pages).Msg("logbook exported")
			return nil
		},
	}

	cmd.Flags().StringVar(&calculator, "calculator", "", "only export this calculator")
	cmd.Flags().StringVar(&since, "since", "", "only export entries newer than this age (e.g. 90d)")
	return cmd
}

// exportPage encodes page as NDJSON in concurrent chunks and writes the chunks
// to out in order.
func exportPage(ctx context.Context, p *batch.Processor[logbook.Entry], out io.Writer, page []logbook.Entry) error {
	size := p.ChunkSize()
	chunks := make([]bytes.Buffer, len(p.Bounds(len(page))))
	err := p.ProcessConcurrent(ctx, page, func(_ context.Context, chunk []logbook.Entry, offset int) error {
		return engine.WriteNDJSON(&chunks[offset/size], chunk)
	}, exportWorkers)
	if err != nil {
		return err
	}
	for i := range chunks {
		if _, err = chunks[i].WriteTo(out); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
	}
	return nil
}

// parseAge reads a whole number of days ("30d") or a Go duration ("12h").
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAge, s)
		}
		return time.Duration(n) * hoursPerDay * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAge, s)
	}
	return d, nil
}

// formatAge renders whole days as "30d" and anything else as a Go duration.
func formatAge(d time.Duration) string {
	day := hoursPerDay * time.Hour
	if d%day == 0 {
		return fmt.Sprintf("%dd", d/day)
	}
	return d.String()
}
