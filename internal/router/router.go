// Package router delivers the records of one stream to its sinks.
//
// A Router owns the file sink of its stream and borrows the shared console
// sink. Delivery to each sink is independent: a failing sink is reported
// through the error handler and never prevents delivery to the others.
package router

import (
	"errors"
	"sync"

	"github.com/Aman-CERP/streamlog/internal/config"
	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/sink"
)

// ErrorHandler receives sink failures. It must not block for long; it runs
// on the emitting goroutine (or the queue goroutine in async mode).
type ErrorHandler func(err error)

// Router fans the records of one stream out to its sinks.
type Router struct {
	cfg    config.StreamConfig
	sinks  []sink.Sink
	owned  []sink.Sink
	report ErrorHandler

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
	queue  chan record.Record // nil in synchronous mode
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	console     sink.Sink
	logDir      string
	unit        sink.Unit
	maxSegments int
	syncWrites  bool
	extra       []sink.Sink
	report      ErrorHandler
	queueSize   int
}

// Option configures a Router.
type Option func(*options)

// WithConsole sets the shared console sink used when the stream has console
// output enabled. The router never closes it.
func WithConsole(s sink.Sink) Option {
	return func(o *options) {
		o.console = s
	}
}

// WithLogDir sets the directory of the stream's rotating file sink.
func WithLogDir(dir string) Option {
	return func(o *options) {
		o.logDir = dir
	}
}

// WithRotation sets the rotation policy of the stream's file sink.
func WithRotation(rc config.RotationConfig) Option {
	return func(o *options) {
		o.unit = rc.Unit
		o.maxSegments = rc.MaxSegments
		o.syncWrites = rc.Sync
	}
}

// WithSink adds an extra sink owned by the caller.
func WithSink(s sink.Sink) Option {
	return func(o *options) {
		o.extra = append(o.extra, s)
	}
}

// WithErrorHandler sets the handler for sink failures. Default: ignore.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		o.report = h
	}
}

// WithQueue enables asynchronous delivery through a FIFO queue of the given
// capacity. Route blocks when the queue is full.
func WithQueue(size int) Option {
	return func(o *options) {
		o.queueSize = size
	}
}

// New builds the router of one stream. Sinks are created once here and live
// until Close.
func New(cfg config.StreamConfig, opts ...Option) (*Router, error) {
	o := options{unit: sink.DefaultUnit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.queueSize < 0 {
		return nil, amerrors.ConfigError("queue size must be non-negative", nil)
	}

	r := &Router{
		cfg:    cfg,
		report: o.report,
	}
	if r.report == nil {
		r.report = func(error) {}
	}

	if cfg.Enabled {
		if cfg.Console && o.console != nil {
			r.sinks = append(r.sinks, o.console)
		}
		if cfg.Rotate {
			if o.logDir == "" {
				return nil, amerrors.ConfigError("rotating stream "+string(cfg.Stream)+" has no log directory", nil)
			}
			file := sink.NewRotatingFile(o.logDir, cfg.Name,
				sink.WithUnit(o.unit),
				sink.WithMaxSegments(o.maxSegments),
				sink.WithImmediateSync(o.syncWrites),
			)
			r.sinks = append(r.sinks, file)
			r.owned = append(r.owned, file)
		}
		r.sinks = append(r.sinks, o.extra...)
	}

	if o.queueSize > 0 {
		r.queue = make(chan record.Record, o.queueSize)
		r.done = make(chan struct{})
		go r.consume()
	}

	return r, nil
}

// Accepts reports whether a record at level l would be delivered.
func (r *Router) Accepts(l record.Level) bool {
	return r.cfg.Enabled && r.cfg.Filter.Allows(l) && len(r.sinks) > 0
}

// Route delivers rec to every sink of the stream. It returns false when the
// record is filtered out or the router is closed. Sink failures go to the
// error handler and are not returned. In async mode Route blocks while the
// queue is full, and Close waits for such a blocked Route to finish.
func (r *Router) Route(rec record.Record) bool {
	if !r.Accepts(rec.Level) {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false
	}

	if r.queue != nil {
		r.queue <- rec
		return true
	}

	r.deliver(rec)
	return true
}

func (r *Router) consume() {
	defer close(r.done)
	for rec := range r.queue {
		r.deliver(rec)
	}
}

func (r *Router) deliver(rec record.Record) {
	for _, s := range r.sinks {
		if err := s.Write(rec); err != nil {
			r.report(amerrors.SinkWriteError(s.Name(), string(rec.Stream), err))
		}
	}
}

// Close stops accepting records, drains the queue in async mode, then
// syncs and closes the sinks the router owns. Safe to call more than once.
func (r *Router) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		if r.queue != nil {
			close(r.queue)
		}
		r.mu.Unlock()

		if r.done != nil {
			<-r.done
		}

		var errs []error
		for _, s := range r.owned {
			if err := s.Sync(); err != nil {
				errs = append(errs, err)
			}
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		r.closeErr = errors.Join(errs...)
	})
	return r.closeErr
}
