package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/mazerion/internal/engine"
)

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateList shows the calculator table.
	ViewStateList ViewState = iota
	// ViewStateCalculator shows one calculator with its parameter input and result.
	ViewStateCalculator
	// ViewStateQuitting is set once the user exits.
	ViewStateQuitting
)

// RunFunc executes a calculator request, normally engine.(*Engine).Run.
type RunFunc func(ctx context.Context, req engine.Request) (engine.Response, error)

// ErrMalformedParams is returned for parameter text that is not key=value pairs.
var ErrMalformedParams = errors.New("parameters must be space-separated key=value pairs")

// Table column widths.
const (
	colWidthID       = 30
	colWidthName     = 34
	colWidthCategory = 12

	// chromeHeight is the rows used by the title, filter line and help.
	chromeHeight = 7
	minTableRows = 3
)

type runResultMsg struct {
	req  engine.Request
	resp engine.Response
	err  error
}

// BrowserModel is the Bubble Tea model of `mazerion browse`: a filterable
// calculator table, and per calculator a parameter line that runs it.
type BrowserModel struct {
	ctx   context.Context
	runFn RunFunc

	state      ViewState
	all        []engine.Info
	visible    []engine.Info
	table      table.Model
	filter     textinput.Model
	showFilter bool

	selected engine.Info
	params   textinput.Model
	running  bool
	resp     *engine.Response
	err      error

	width  int
	height int
}

// NewBrowserModel returns a browser over calculators. runFn is called when
// the user submits parameters.
func NewBrowserModel(ctx context.Context, calculators []engine.Info, runFn RunFunc) *BrowserModel {
	filter := textinput.New()
	filter.Placeholder = "filter by id, name, category or description"
	filter.Prompt = "/ "

	params := textinput.New()
	params.Placeholder = "og=1.050 fg=1.010"
	params.Prompt = "> "
	params.CharLimit = engine.MaxValueLength

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: colWidthID},
			{Title: "Name", Width: colWidthName},
			{Title: "Category", Width: colWidthCategory},
		}),
		table.WithFocused(true),
		table.WithHeight(defaultHeight-chromeHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ColorHighlight).
		Background(ColorSelected)
	t.SetStyles(styles)

	m := &BrowserModel{
		ctx:    ctx,
		runFn:  runFn,
		state:  ViewStateList,
		all:    calculators,
		table:  t,
		filter: filter,
		params: params,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.applyFilter()
	return m
}

// Init initializes the model.
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-chromeHeight, minTableRows))
		return m, nil

	case runResultMsg:
		m.running = false
		if msg.err != nil {
			m.err = msg.err
			m.resp = nil
			return m, nil
		}
		m.err = nil
		m.resp = &msg.resp
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		if m.state == ViewStateCalculator {
			return m.handleCalculatorKey(msg)
		}
		return m.handleListKey(msg)
	}

	return m, nil
}

// handleListKey processes keyboard input on the calculator table.
//
//nolint:exhaustive // Only handling relevant key types for list navigation.
func (m *BrowserModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showFilter {
		switch msg.Type {
		case tea.KeyEnter:
			m.showFilter = false
			m.filter.Blur()
			m.table.Focus()
			return m, nil
		case tea.KeyEsc:
			m.showFilter = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.table.Focus()
			m.applyFilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			m.state = ViewStateQuitting
			return m, tea.Quit
		case "/":
			m.showFilter = true
			m.table.Blur()
			return m, m.filter.Focus()
		}

	case tea.KeyEnter:
		cursor := m.table.Cursor()
		if cursor < 0 || cursor >= len(m.visible) {
			return m, nil
		}
		m.selected = m.visible[cursor]
		m.state = ViewStateCalculator
		m.resp = nil
		m.err = nil
		m.params.SetValue("")
		return m, m.params.Focus()

	case tea.KeyEsc:
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleCalculatorKey processes keyboard input on a calculator screen.
//
//nolint:exhaustive // Only handling relevant key types for text editing.
func (m *BrowserModel) handleCalculatorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = ViewStateList
		m.params.Blur()
		return m, nil

	case tea.KeyEnter:
		if m.running || m.runFn == nil {
			return m, nil
		}
		params, err := ParseParamLine(m.params.Value())
		if err != nil {
			m.err = err
			m.resp = nil
			return m, nil
		}
		return m, m.triggerRun(engine.Request{CalculatorID: m.selected.ID, Params: params})
	}

	var cmd tea.Cmd
	m.params, cmd = m.params.Update(msg)
	return m, cmd
}

// triggerRun creates a command that runs req off the update loop.
func (m *BrowserModel) triggerRun(req engine.Request) tea.Cmd {
	m.running = true

	// Capture references before the command runs to avoid reading model fields concurrently.
	ctx := m.ctx
	runFn := m.runFn

	return func() tea.Msg {
		resp, err := runFn(ctx, req)
		return runResultMsg{req: req, resp: resp, err: err}
	}
}

// applyFilter recomputes the visible calculators from the filter text.
func (m *BrowserModel) applyFilter() {
	term := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, info := range m.all {
		if term == "" || matches(info, term) {
			m.visible = append(m.visible, info)
		}
	}

	rows := make([]table.Row, len(m.visible))
	for i, info := range m.visible {
		rows[i] = table.Row{info.ID, info.Name, info.Category}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func matches(info engine.Info, term string) bool {
	for _, field := range []string{info.ID, info.Name, info.Category, info.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// View renders the current view.
func (m *BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateCalculator:
		return m.renderCalculatorView()
	case ViewStateList:
	}
	return m.renderListView()
}

func (m *BrowserModel) renderListView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Mazerion calculators"))
	sb.WriteString("\n")

	switch {
	case m.showFilter:
		sb.WriteString(m.filter.View())
	case m.filter.Value() != "":
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %s (%d of %d)",
			m.filter.Value(), len(m.visible), len(m.all))))
	default:
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("%d calculators", len(m.all))))
	}
	sb.WriteString("\n")

	if len(m.visible) == 0 {
		sb.WriteString(mutedStyle.Italic(true).Render("No calculators match the filter"))
	} else {
		sb.WriteString(m.table.View())
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↑/↓ navigate • enter open • / filter • esc clear • q quit"))
	return sb.String()
}

func (m *BrowserModel) renderCalculatorView() string {
	var sb strings.Builder
	sb.WriteString(RenderHeader(m.selected))
	sb.WriteString("\n\n")
	sb.WriteString(m.params.View())
	sb.WriteString("\n\n")

	switch {
	case m.running:
		sb.WriteString(mutedStyle.Render("Calculating..."))
	case m.err != nil:
		sb.WriteString(RenderError(m.err))
	case m.resp != nil:
		sb.WriteString(RenderResult(*m.resp, m.width))
	}
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("enter run • esc back • ctrl+c quit"))
	return sb.String()
}

// State returns the current view state.
func (m *BrowserModel) State() ViewState {
	return m.state
}

// Visible returns the calculators that pass the current filter.
func (m *BrowserModel) Visible() []engine.Info {
	return m.visible
}

// Selected returns the calculator opened last.
func (m *BrowserModel) Selected() engine.Info {
	return m.selected
}

// Result returns the last successful response, or nil.
func (m *BrowserModel) Result() *engine.Response {
	return m.resp
}

// Err returns the last run or parse error.
func (m *BrowserModel) Err() error {
	return m.err
}

// ParseParamLine splits "key=value key=value" into a param map.
func ParseParamLine(line string) (map[string]string, error) {
	params := make(map[string]string)
	for _, field := range strings.Fields(line) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedParams, field)
		}
		params[key] = value
	}
	return params, nil
}
