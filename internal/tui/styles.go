package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette shared by every view.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorBorder    = lipgloss.Color("240")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("242")
	ColorHighlight = lipgloss.Color("229")
	ColorSelected  = lipgloss.Color("57")
	ColorOK        = lipgloss.Color("42")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
)

// Icons used in rendered output.
const (
	IconWarning = "!"
	IconError   = "x"
	IconOK      = "*"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// OutputMode is how results are presented on the current terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text, for pipes and NO_COLOR.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// DetectOutputMode picks the richest mode the terminal supports. forcePlain
// and the NO_COLOR environment variable force plain output; interactive
// mode also needs stdin to be a terminal.
func DetectOutputMode(forcePlain bool) OutputMode {
	if forcePlain || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputModePlain
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalSize returns the stdout terminal size, or 80x24 when unknown.
func TerminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

//nolint:gochecknoglobals // Immutable styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	helpStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	resultStyle  = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
)
