package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rshade/mazerion/internal/logbook"
)

// OutputFormat selects how results are written.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// ErrUnknownFormat is returned for an output format outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

// SupportedFormats returns the output formats in display order.
func SupportedFormats() []string {
	return []string{string(OutputTable), string(OutputJSON), string(OutputNDJSON)}
}

// ParseOutputFormat parses s, ignoring case. An empty string selects the table.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputTable:
		return OutputTable, nil
	case OutputJSON:
		return OutputJSON, nil
	case OutputNDJSON:
		return OutputNDJSON, nil
	default:
		return "", fmt.Errorf("%w %q, must be one of: %s", ErrUnknownFormat, s, strings.Join(SupportedFormats(), ", "))
	}
}

const (
	tabwriterPadding = 2
	colWidthDesc     = 60
	colWidthError    = 60
	colWidthResult   = 40
	truncateMinLen   = 3
)

// RenderCalculators writes the catalog listing.
func RenderCalculators(w io.Writer, format OutputFormat, infos []Info) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, nonNil(infos))
	case OutputNDJSON:
		return WriteNDJSON(w, infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "ID\tNAME\tCATEGORY\tDESCRIPTION\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "--\t----\t--------\t-----------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, info := range infos {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			info.ID, info.Name, info.Category, truncate(info.Description, colWidthDesc)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if _, err := fmt.Fprintf(tw, "\n%d calculators\n", len(infos)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return tw.Flush()
}

// RenderInfo writes the description of one calculator.
func RenderInfo(w io.Writer, format OutputFormat, info Info) error {
	if format == OutputJSON || format == OutputNDJSON {
		return writeJSON(w, info)
	}
	_, err := fmt.Fprintf(w, "%s (%s)\nCategory:    %s\nDescription: %s\n",
		info.Name, info.ID, info.Category, info.Description)
	return err
}

// RenderResponse writes one calculation result. The table form lists the
// result, warnings, and metadata sorted by key.
func RenderResponse(w io.Writer, format OutputFormat, resp Response) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputNDJSON:
		return WriteNDJSON(w, []Response{resp})
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Calculator:\t%s\nResult:\t%s\n", resp.CalculatorID, resp.Display); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	for _, warning := range resp.Warnings {
		if _, err := fmt.Fprintf(tw, "Warning:\t%s\n", warning); err != nil {
			return fmt.Errorf("writing warning: %w", err)
		}
	}
	if len(resp.Metadata) > 0 {
		if _, err := fmt.Fprintf(tw, "\nKEY\tVALUE\n---\t-----\n"); err != nil {
			return fmt.Errorf("writing metadata header: %w", err)
		}
		keys := make([]string, 0, len(resp.Metadata))
		for k := range resp.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", k, resp.Metadata[k]); err != nil {
				return fmt.Errorf("writing metadata: %w", err)
			}
		}
	}
	if resp.LogID != "" {
		if _, err := fmt.Fprintf(tw, "\nLogged:\t%s\n", resp.LogID); err != nil {
			return fmt.Errorf("writing log id: %w", err)
		}
	}
	return tw.Flush()
}

// RenderBatch writes the items of a batch run followed by a summary line.
// NDJSON emits one item per line and no summary.
func RenderBatch(w io.Writer, format OutputFormat, run BatchRun) error {
	switch format {
	case OutputJSON:
		run.Items = nonNil(run.Items)
		return writeJSON(w, run)
	case OutputNDJSON:
		return WriteNDJSON(w, run.Items)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "#\tCALCULATOR\tSTATUS\tRESULT\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-\t----------\t------\t------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, item := range run.Items {
		status, result := "ok", ""
		if item.OK() {
			result = item.Response.Display
			if n := len(item.Response.Warnings); n > 0 {
				result += fmt.Sprintf(" (%d warnings)", n)
			}
		} else {
			status = "error"
			result = truncate(item.Error, colWidthError)
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.Index, item.CalculatorID, status, result); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if _, err := fmt.Fprintf(tw, "\n%d succeeded, %d failed\n", run.Succeeded, run.Failed); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return tw.Flush()
}

// RenderEntries writes logbook entries.
func RenderEntries(w io.Writer, format OutputFormat, entries []logbook.Entry) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, nonNil(entries))
	case OutputNDJSON:
		return WriteNDJSON(w, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "ID\tTIME\tCALCULATOR\tRESULT\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "--\t----\t----------\t------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.CalculatorID,
			truncate(e.Result, colWidthResult)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteNDJSON writes each item as one JSON line.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshaling item: %w", err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	return nil
}

// nonNil keeps empty lists encoding as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= truncateMinLen {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
