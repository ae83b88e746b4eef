package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/engine"
	"github.com/rshade/mazerion/internal/measure"
)

func sampleInfos() []engine.Info {
	return []engine.Info{
		{ID: "abv", Name: "ABV Calculator", Category: "Basic", Description: "Alcohol by volume from gravity"},
		{ID: "brix_to_sg", Name: "Brix to SG Converter", Category: "Basic", Description: "Convert Brix to specific gravity"},
		{ID: "sulfite", Name: "Sulfite Calculator", Category: "Finishing", Description: "K-meta additions"},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *BrowserModel, s string) {
	for _, r := range s {
		m.Update(keyRunes(string(r)))
	}
}

// runCmd executes cmd and feeds its message back into the model.
func runCmd(t *testing.T, m *BrowserModel, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func TestNewBrowserModel(t *testing.T) {
	m := NewBrowserModel(context.Background(), sampleInfos(), nil)

	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.Visible(), 3)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "3 calculators")
	assert.Contains(t, m.View(), "brix_to_sg")
}

func TestBrowserModel_Filter(t *testing.T) {
	m := NewBrowserModel(context.Background(), sampleInfos(), nil)

	m.Update(keyRunes("/"))
	typeText(m, "finish")
	require.Len(t, m.Visible(), 1)
	assert.Equal(t, "sulfite", m.Visible()[0].ID)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "1 of 3")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.Visible(), 3)
}

func TestBrowserModel_FilterNoMatch(t *testing.T) {
	m := NewBrowserModel(context.Background(), sampleInfos(), nil)

	m.Update(keyRunes("/"))
	typeText(m, "zzz")
	assert.Empty(t, m.Visible())
	assert.Contains(t, m.View(), "No calculators match")

	// Enter on an empty table stays on the list.
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_RunCalculator(t *testing.T) {
	var got engine.Request
	runFn := func(_ context.Context, req engine.Request) (engine.Response, error) {
		got = req
		return engine.Response{
			CalculatorID: req.CalculatorID,
			Value:        decimal.RequireFromString("5.25"),
			Unit:         measure.ABV,
			Display:      "5.25 % ABV",
			Metadata:     map[string]string{"formula": "standard"},
		}, nil
	}
	m := NewBrowserModel(context.Background(), sampleInfos(), runFn)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewStateCalculator, m.State())
	assert.Equal(t, "abv", m.Selected().ID)
	assert.Contains(t, m.View(), "ABV Calculator")

	typeText(m, "og=1.050 fg=1.010")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Calculating")
	runCmd(t, m, cmd)

	assert.Equal(t, engine.Request{
		CalculatorID: "abv",
		Params:       map[string]string{"og": "1.050", "fg": "1.010"},
	}, got)
	require.NotNil(t, m.Result())
	require.NoError(t, m.Err())
	view := m.View()
	assert.Contains(t, view, "5.25 % ABV")
	assert.Contains(t, view, "formula")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_RunError(t *testing.T) {
	runFn := func(context.Context, engine.Request) (engine.Response, error) {
		return engine.Response{}, errors.New("fg is required")
	}
	m := NewBrowserModel(context.Background(), sampleInfos(), runFn)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(m, "og=1.050")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, m, cmd)

	require.Error(t, m.Err())
	assert.Nil(t, m.Result())
	assert.Contains(t, m.View(), "fg is required")
}

func TestBrowserModel_MalformedParams(t *testing.T) {
	called := false
	runFn := func(context.Context, engine.Request) (engine.Response, error) {
		called = true
		return engine.Response{}, nil
	}
	m := NewBrowserModel(context.Background(), sampleInfos(), runFn)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(m, "og")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.ErrorIs(t, m.Err(), ErrMalformedParams)
}

func TestBrowserModel_Navigation(t *testing.T) {
	m := NewBrowserModel(context.Background(), sampleInfos(), nil)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "brix_to_sg", m.Selected().ID)
}

func TestBrowserModel_Quit(t *testing.T) {
	t.Run("q on list", func(t *testing.T) {
		m := NewBrowserModel(context.Background(), sampleInfos(), nil)
		_, cmd := m.Update(keyRunes("q"))
		require.NotNil(t, cmd)
		assert.Equal(t, ViewStateQuitting, m.State())
		assert.Empty(t, m.View())
	})

	t.Run("q while filtering is text", func(t *testing.T) {
		m := NewBrowserModel(context.Background(), sampleInfos(), nil)
		m.Update(keyRunes("/"))
		m.Update(keyRunes("q"))
		assert.Equal(t, ViewStateList, m.State())
	})

	t.Run("ctrl+c anywhere", func(t *testing.T) {
		m := NewBrowserModel(context.Background(), sampleInfos(), nil)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, ViewStateQuitting, m.State())
	})
}

func TestBrowserModel_WindowSize(t *testing.T) {
	m := NewBrowserModel(context.Background(), sampleInfos(), nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestParseParamLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", line: "  ", want: map[string]string{}},
		{name: "pairs", line: "og=1.050  fg=1.010", want: map[string]string{"og": "1.050", "fg": "1.010"}},
		{name: "no equals", line: "og 1.050", wantErr: true},
		{name: "no key", line: "=1.050", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParamLine(tt.line)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedParams)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderResult(t *testing.T) {
	resp := engine.Response{
		CalculatorID: "abv",
		Display:      "14.20 % ABV",
		Warnings:     []string{"High ABV, check yeast tolerance"},
		Metadata:     map[string]string{"og": "1.120", "fg": "1.012"},
		LogID:        "01HZX",
	}

	out := RenderResult(resp, 0)
	assert.Contains(t, out, "14.20 % ABV")
	assert.Contains(t, out, "High ABV")
	assert.Contains(t, out, "1.120")
	assert.Contains(t, out, "01HZX")
	assert.Less(t, strings.Index(out, "fg"), strings.Index(out, "og"), "metadata keys are sorted")
}

func TestRenderError(t *testing.T) {
	assert.Contains(t, RenderError(errors.New("boom")), "boom")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestTerminalSize(t *testing.T) {
	w, h := TerminalSize()
	assert.Positive(t, w)
	assert.Positive(t, h)
}

func TestDetectOutputMode(t *testing.T) {
	assert.Equal(t, OutputModePlain, DetectOutputMode(true))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, OutputModePlain, DetectOutputMode(false))
}
