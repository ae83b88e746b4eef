package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/mazerion/internal/engine"
)

const (
	metaKeyWidth  = 24
	minTruncate   = 3
	separatorChar = "─"
)

// RenderHeader renders the title block for a calculator.
func RenderHeader(info engine.Info) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(info.Name))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("ID: "))
	sb.WriteString(valueStyle.Render(info.ID))
	sb.WriteString("  ")
	sb.WriteString(labelStyle.Render("Category: "))
	sb.WriteString(valueStyle.Render(info.Category))
	if info.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(info.Description))
	}
	return sb.String()
}

// RenderResult renders a calculation result with its warnings and sorted
// metadata, clipped to width.
func RenderResult(resp engine.Response, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	var sb strings.Builder

	sb.WriteString(labelStyle.Render("Result: "))
	sb.WriteString(resultStyle.Render(resp.Display))
	sb.WriteString("\n")

	for _, w := range resp.Warnings {
		sb.WriteString(warningStyle.Render(IconWarning + " " + w))
		sb.WriteString("\n")
	}

	if len(resp.Metadata) > 0 {
		sb.WriteString(mutedStyle.Render(strings.Repeat(separatorChar, min(width, defaultWidth))))
		sb.WriteString("\n")

		keys := make([]string, 0, len(resp.Metadata))
		for k := range resp.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		valueWidth := max(width-metaKeyWidth-1, minTruncate+1)
		for _, k := range keys {
			sb.WriteString(labelStyle.Width(metaKeyWidth).Render(truncate(k, metaKeyWidth-1)))
			sb.WriteString(" ")
			sb.WriteString(valueStyle.Render(truncate(resp.Metadata[k], valueWidth)))
			sb.WriteString("\n")
		}
	}

	if resp.LogID != "" {
		sb.WriteString(mutedStyle.Render("Logged as " + resp.LogID))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderError renders a failed calculation.
func RenderError(err error) string {
	return errorStyle.Render(IconError + " " + err.Error())
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= minTruncate {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
