// Package output provides consistent CLI status output for the streamlog
// commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/ui"
)

// Writer prints status lines for the CLI. Write errors are ignored; status
// output is best effort.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a Writer that colors its icons when out is a terminal.
func New(out io.Writer) *Writer {
	return NewWithColor(out, ui.UseColor(ui.ColorAuto, out))
}

// NewWithColor creates a Writer with explicit color selection.
func NewWithColor(out io.Writer, color bool) *Writer {
	return &Writer{
		out:    out,
		styles: ui.NewStyles(out, color),
	}
}

// Status prints a message prefixed with icon, or indented when icon is empty.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "  %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status(w.styles.Info.Render("✓"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.styles.Warn.Render("!"), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status(w.styles.Error.Render("✗"), msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Failure prints err with its hint and code, as rendered by
// errors.FormatForCLI.
func (w *Writer) Failure(err error) {
	if err == nil {
		return
	}
	lines := strings.Split(strings.TrimRight(errors.FormatForCLI(err), "\n"), "\n")
	w.Error(strings.TrimPrefix(lines[0], "Error: "))
	for _, line := range lines[1:] {
		w.Status("", w.styles.Dim.Render(strings.TrimSpace(line)))
	}
}
