package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Aman-CERP/streamlog/internal/record"
)

// Color palette, ANSI 256 codes.
const (
	ColorLime     = "154" // info
	ColorGray     = "245" // debug, timestamps
	ColorDarkGray = "238" // trace
	ColorCyan     = "44"  // stream labels
	ColorRed      = "196" // error
	ColorYellow   = "220" // warn
)

// Styles holds the console styles for log output.
type Styles struct {
	Trace  lipgloss.Style
	Debug  lipgloss.Style
	Info   lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Stream lipgloss.Style
	Dim    lipgloss.Style
}

// NewStyles returns styles bound to w. When color is true the ANSI 256
// profile is forced, so colors are emitted even if w is not a terminal;
// callers decide with UseColor.
func NewStyles(w io.Writer, color bool) Styles {
	if !color {
		return NoColorStyles()
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)

	return Styles{
		Trace:  r.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Debug:  r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Info:   r.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warn:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorYellow)),
		Error:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Stream: r.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Dim:    r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Trace:  lipgloss.NewStyle(),
		Debug:  lipgloss.NewStyle(),
		Info:   lipgloss.NewStyle(),
		Warn:   lipgloss.NewStyle(),
		Error:  lipgloss.NewStyle(),
		Stream: lipgloss.NewStyle(),
		Dim:    lipgloss.NewStyle(),
	}
}

// Level returns the style for a record level.
func (s Styles) Level(l record.Level) lipgloss.Style {
	switch l {
	case record.LevelTrace:
		return s.Trace
	case record.LevelDebug:
		return s.Debug
	case record.LevelWarn:
		return s.Warn
	case record.LevelError:
		return s.Error
	default:
		return s.Info
	}
}
