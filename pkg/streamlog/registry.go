package streamlog

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/streamlog/internal/config"
	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/logging"
	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/router"
	"github.com/Aman-CERP/streamlog/internal/sink"
)

// Registry owns one router per stream and the shared console sink.
type Registry struct {
	cfg     *config.Config
	routers map[record.StreamName]*router.Router
	console *sink.Console
	logger  *slog.Logger
	now     func() time.Time
	errs    chan error

	profileMu sync.Mutex
	timers    *lru.Cache[profileKey, time.Time]

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Configure builds a Registry. The steps run in order and the first failure
// aborts the rest:
//
//  1. resolve options against defaults and validate (ConfigError)
//  2. create or reuse the log directory and check access (DirectoryError)
//  3. build one router per stream around a shared console sink
func Configure(opts Options, options ...Option) (*Registry, error) {
	o := registryOptions{
		now:         time.Now,
		errorBuffer: DefaultErrorBuffer,
	}
	for _, opt := range options {
		opt(&o)
	}

	cfg, err := config.Resolve(opts)
	if err != nil {
		return nil, err
	}

	if err := logging.EnsureLogDir(cfg.LogPath); err != nil {
		return nil, err
	}

	return build(cfg, o)
}

func build(cfg *config.Config, o registryOptions) (*Registry, error) {
	logger := o.logger
	if logger == nil {
		logger = logging.New(cfg.Diagnostics)
	}
	out := o.consoleWriter
	if out == nil {
		out = os.Stdout
	}
	if o.errorBuffer < 0 {
		o.errorBuffer = 0
	}

	timers, err := lru.New[profileKey, time.Time](maxPendingProfiles)
	if err != nil {
		return nil, amerrors.InternalError("failed to create profile cache", err)
	}

	reg := &Registry{
		cfg:     cfg,
		routers: make(map[record.StreamName]*router.Router, len(cfg.Streams)),
		console: sink.NewConsole(out, sink.WithColorMode(cfg.Color)),
		logger:  logger,
		now:     o.now,
		errs:    make(chan error, o.errorBuffer),
		timers:  timers,
	}

	for _, name := range record.Streams() {
		ropts := []router.Option{
			router.WithConsole(reg.console),
			router.WithLogDir(cfg.LogPath),
			router.WithRotation(cfg.Rotation),
			router.WithErrorHandler(reg.reportSinkError),
		}
		if cfg.Async.Enabled {
			ropts = append(ropts, router.WithQueue(cfg.Async.QueueSize))
		}

		rt, err := router.New(cfg.Streams[name], ropts...)
		if err != nil {
			for _, built := range reg.routers {
				_ = built.Close()
			}
			return nil, err
		}
		reg.routers[name] = rt
	}

	logger.Debug("registry configured",
		slog.String("log_path", cfg.LogPath),
		slog.String("unit", string(cfg.Rotation.Unit)),
		slog.Bool("async", cfg.Async.Enabled))

	return reg, nil
}

// lookup returns the router of stream. A nil router with a nil error means
// the record must be dropped.
func (r *Registry) lookup(stream StreamName) (*router.Router, error) {
	rt, ok := r.routers[stream]
	if ok {
		return rt, nil
	}
	if r.cfg.UnknownStream == config.PolicyDrop {
		r.logger.Debug("dropped record for unknown stream", slog.String("stream", string(stream)))
		return nil, nil
	}
	return nil, amerrors.UnknownStreamError(string(stream))
}

// Emit sends one record per payload to stream at level. Records are stamped
// with the registry clock. Sink failures are not returned; the only error is
// an UnknownStreamError under the "error" policy. Emit after Close does
// nothing.
func (r *Registry) Emit(stream StreamName, level Level, payloads ...Payload) error {
	if r.closed.Load() {
		return nil
	}
	rt, err := r.lookup(stream)
	if rt == nil {
		return err
	}
	if !level.Valid() {
		return amerrors.InternalError("invalid level "+level.String(), nil).
			WithDetail("stream", string(stream))
	}
	if !rt.Accepts(level) {
		return nil
	}

	now := r.now()
	for _, p := range payloads {
		rt.Route(record.NewAt(now, stream, level, p))
	}
	return nil
}

// Enabled reports whether a record on stream at level would reach any sink.
func (r *Registry) Enabled(stream StreamName, level Level) bool {
	rt, ok := r.routers[stream]
	return ok && rt.Accepts(level)
}

// Log emits payloads on the log stream at info level.
func (r *Registry) Log(payloads ...Payload) error {
	return r.Emit(StreamLog, LevelInfo, payloads...)
}

// Warn emits payloads on the log stream at warn level.
func (r *Registry) Warn(payloads ...Payload) error {
	return r.Emit(StreamLog, LevelWarn, payloads...)
}

// Error emits payloads on the log stream at error level.
func (r *Registry) Error(payloads ...Payload) error {
	return r.Emit(StreamLog, LevelError, payloads...)
}

// Errors returns the channel on which sink failures are published. Sends
// never block: when the buffer is full the error is only logged. The channel
// is closed by Close.
func (r *Registry) Errors() <-chan error {
	return r.errs
}

func (r *Registry) reportSinkError(err error) {
	r.logger.LogAttrs(context.Background(), slog.LevelWarn, "sink write failed", amerrors.FormatForLog(err)...)
	select {
	case r.errs <- err:
	default:
	}
}

// Config returns a copy of the resolved configuration.
func (r *Registry) Config() Config {
	return r.cfg.Clone()
}

// Close drains queued records, then syncs and closes every segment
// concurrently. Further emits are ignored. Safe to call more than once.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)

		var g errgroup.Group
		for _, rt := range r.routers {
			g.Go(rt.Close)
		}
		r.closeErr = g.Wait()

		_ = r.console.Sync()
		_ = r.console.Close()
		close(r.errs)

		if r.closeErr != nil {
			r.logger.Warn("registry closed with errors", slog.String("error", r.closeErr.Error()))
		}
	})
	return r.closeErr
}
