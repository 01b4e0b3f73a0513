package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/ui"
)

// ErrClosed is returned by writes to a closed sink.
var ErrClosed = errors.New("sink closed")

// Console writes human-readable records to an output stream, one line per record:
//
//	14:05:06.123 WARN  [request] slow upstream
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles ui.Styles
	closed bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*consoleOptions)

type consoleOptions struct {
	mode ui.ColorMode
}

// WithColorMode sets when the console colorizes levels. Default: auto.
func WithColorMode(mode ui.ColorMode) ConsoleOption {
	return func(o *consoleOptions) {
		o.mode = mode
	}
}

// NewConsole creates a console sink writing to out (os.Stdout when nil).
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	if out == nil {
		out = os.Stdout
	}

	o := consoleOptions{mode: ui.ColorAuto}
	for _, opt := range opts {
		opt(&o)
	}

	return &Console{
		out:    out,
		styles: ui.NewStyles(out, ui.UseColor(o.mode, out)),
	}
}

// Name implements Sink.
func (c *Console) Name() string {
	return "console"
}

// Write implements Sink. A failing output stream is reported to the caller
// and not retried.
func (c *Console) Write(r record.Record) error {
	line := fmt.Sprintf("%s %s %s %s\n",
		c.styles.Dim.Render(r.Time.Local().Format("15:04:05.000")),
		c.styles.Level(r.Level).Render(r.Level.Label()),
		c.styles.Stream.Render("["+string(r.Stream)+"]"),
		display(r.Payload),
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	_, err := io.WriteString(c.out, line)
	return err
}

// Sync implements Sink. Only *os.File outputs are synced; errors from
// syncing a terminal or pipe are ignored.
func (c *Console) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.out.(*os.File); ok {
		_ = f.Sync()
	}
	return nil
}

// Close implements Sink. The underlying writer is not closed; it belongs to
// the caller.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

func display(p record.Payload) string {
	if p == nil {
		return ""
	}
	return p.Display()
}
