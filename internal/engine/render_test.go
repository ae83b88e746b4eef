package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/logbook"
	"github.com/rshade/mazerion/internal/measure"
)

func sampleResponse() Response {
	return Response{
		CalculatorID: "abv",
		Value:        decimal.RequireFromString("5.25"),
		Unit:         measure.ABV,
		Display:      "5.25 % ABV",
		Warnings:     []string{"check your hydrometer"},
		Metadata:     map[string]string{"og": "1.050", "fg": "1.010", "formula": "ABV = (OG - FG) × 131.25"},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputTable, false},
		{"table", OutputTable, false},
		{"JSON", OutputJSON, false},
		{" ndjson ", OutputNDJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderResponse(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		resp := sampleResponse()
		resp.LogID = "01J0000000000000000000000A"
		require.NoError(t, RenderResponse(&buf, OutputTable, resp))

		out := buf.String()
		assert.Contains(t, out, "5.25 % ABV")
		assert.Contains(t, out, "Warning:")
		assert.Contains(t, out, "check your hydrometer")
		assert.Contains(t, out, "01J0000000000000000000000A")
		assert.Less(t, strings.Index(out, "fg "), strings.Index(out, "formula"))
		assert.Less(t, strings.Index(out, "formula"), strings.Index(out, "og "))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderResponse(&buf, OutputJSON, sampleResponse()))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "abv", decoded["calculator_id"])
		assert.Equal(t, "5.25", decoded["value"])
		assert.Equal(t, "abv", decoded["unit"])
		assert.NotContains(t, decoded, "log_id")
	})

	t.Run("ndjson", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderResponse(&buf, OutputNDJSON, sampleResponse()))
		assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	})
}

func TestRenderCalculators(t *testing.T) {
	infos := []Info{
		{ID: "abv", Name: "ABV Calculator", Category: "Basic", Description: "Calculate ABV"},
		{ID: "sulfite", Name: "Sulfite", Category: "Finishing", Description: strings.Repeat("long °text ", 20)},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderCalculators(&buf, OutputTable, infos))
		out := buf.String()
		assert.Contains(t, out, "CATEGORY")
		assert.Contains(t, out, "ABV Calculator")
		assert.Contains(t, out, "...")
		assert.Contains(t, out, "2 calculators")
	})

	t.Run("json empty list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderCalculators(&buf, OutputJSON, nil))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("ndjson", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderCalculators(&buf, OutputNDJSON, infos))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)

		var first Info
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, infos[0], first)
	})
}

func TestRenderBatch(t *testing.T) {
	resp := sampleResponse()
	run := BatchRun{
		ID: "01J0000000000000000000000B",
		Items: []BatchItem{
			{Index: 0, CalculatorID: "abv", Response: &resp},
			{Index: 1, CalculatorID: "missing", Error: "calculator not found: missing", Kind: "not found"},
		},
		Succeeded: 1,
		Failed:    1,
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderBatch(&buf, OutputTable, run))
		out := buf.String()
		assert.Contains(t, out, "5.25 % ABV (1 warnings)")
		assert.Contains(t, out, "calculator not found: missing")
		assert.Contains(t, out, "1 succeeded, 1 failed")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderBatch(&buf, OutputJSON, run))
		var decoded BatchRun
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, run.ID, decoded.ID)
		require.Len(t, decoded.Items, 2)
		assert.True(t, decoded.Items[0].OK())
		assert.Equal(t, "not found", decoded.Items[1].Kind)
	})

	t.Run("ndjson", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderBatch(&buf, OutputNDJSON, run))
		assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	})
}

func TestRenderEntries(t *testing.T) {
	entries := []logbook.Entry{{
		ID:           "01J0000000000000000000000C",
		CalculatorID: "abv",
		Inputs:       `{"params":[]}`,
		Result:       "5.25 % ABV",
		Timestamp:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderEntries(&buf, OutputTable, entries))
	assert.Contains(t, buf.String(), "01J0000000000000000000000C")
	assert.Contains(t, buf.String(), "5.25 % ABV")

	buf.Reset()
	require.NoError(t, RenderEntries(&buf, OutputJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "°°", truncate("°°°°", 2))
}
