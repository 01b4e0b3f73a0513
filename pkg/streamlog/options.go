package streamlog

import (
	"io"
	"log/slog"
	"time"
)

// DefaultErrorBuffer is the capacity of the Errors channel.
const DefaultErrorBuffer = 64

type registryOptions struct {
	logger        *slog.Logger
	consoleWriter io.Writer
	now           func() time.Time
	errorBuffer   int
}

// Option configures a Registry.
type Option func(*registryOptions)

// WithLogger sets the diagnostic logger that receives sink failures and
// dropped records. Default: a logger built from the diagnostics options,
// writing to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(o *registryOptions) {
		o.logger = l
	}
}

// WithConsoleWriter redirects console output. Default: os.Stdout.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *registryOptions) {
		o.consoleWriter = w
	}
}

// WithClock sets the clock used to timestamp records and profiles.
func WithClock(now func() time.Time) Option {
	return func(o *registryOptions) {
		o.now = now
	}
}

// WithErrorBuffer sets the capacity of the Errors channel.
func WithErrorBuffer(n int) Option {
	return func(o *registryOptions) {
		o.errorBuffer = n
	}
}
