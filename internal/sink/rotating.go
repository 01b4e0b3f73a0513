package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Aman-CERP/streamlog/internal/record"
)

// RotatingFile appends records to time-bounded segment files named
// {name}.{boundary}.log inside dir.
//
// The segment is chosen from the record timestamp, not the wall clock. A
// record whose boundary is later than the open segment rolls the sink over;
// a late record (earlier boundary) goes to the open segment, so segments
// never go back in time and a file is never reopened by a later boundary.
type RotatingFile struct {
	dir         string
	name        string
	unit        Unit
	maxSegments int

	mu            sync.Mutex
	seg           *segment
	lastStart     time.Time
	degraded      bool
	closed        bool
	immediateSync bool
}

// segment is the currently open file of a RotatingFile.
type segment struct {
	file  *os.File
	start time.Time
	path  string
}

// RotatingOption configures a RotatingFile.
type RotatingOption func(*RotatingFile)

// WithUnit sets the rollover granularity. Default: hour.
func WithUnit(u Unit) RotatingOption {
	return func(w *RotatingFile) {
		w.unit = u
	}
}

// WithMaxSegments keeps only the newest n segment files after each rollover.
// Zero keeps everything.
func WithMaxSegments(n int) RotatingOption {
	return func(w *RotatingFile) {
		w.maxSegments = n
	}
}

// WithImmediateSync fsyncs the segment after every write.
func WithImmediateSync(enabled bool) RotatingOption {
	return func(w *RotatingFile) {
		w.immediateSync = enabled
	}
}

// NewRotatingFile creates a rotating sink. No file is opened until the first write.
func NewRotatingFile(dir, name string, opts ...RotatingOption) *RotatingFile {
	w := &RotatingFile{
		dir:  dir,
		name: name,
		unit: DefaultUnit,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name implements Sink.
func (w *RotatingFile) Name() string {
	return "file"
}

// Write implements Sink. On failure the sink is marked degraded and drops its
// file handle; the next write retries opening the segment.
func (w *RotatingFile) Write(r record.Record) error {
	line, err := record.AppendLine(nil, r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	start := w.unit.Truncate(r.Time)
	if start.Before(w.lastStart) {
		start = w.lastStart
	}

	if w.seg == nil || start.After(w.seg.start) {
		if err := w.rollover(start); err != nil {
			w.degraded = true
			return err
		}
	}

	if _, err := w.seg.file.Write(line); err != nil {
		w.degraded = true
		_ = w.seg.file.Close()
		w.seg = nil
		return fmt.Errorf("write segment: %w", err)
	}

	if w.immediateSync {
		_ = w.seg.file.Sync()
	}

	w.degraded = false
	return nil
}

// rollover closes the open segment, if any, and opens the one starting at start.
// Must be called with w.mu held.
func (w *RotatingFile) rollover(start time.Time) error {
	if w.seg != nil {
		_ = w.seg.file.Close()
		w.seg = nil
	}

	path := filepath.Join(w.dir, SegmentName(w.name, start, w.unit))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open segment: %w", err)
	}

	fresh := !start.Equal(w.lastStart)
	w.seg = &segment{file: f, start: start, path: path}
	w.lastStart = start

	if fresh && w.maxSegments > 0 {
		w.prune()
	}
	return nil
}

// prune deletes the oldest segments beyond maxSegments. Best effort.
func (w *RotatingFile) prune() {
	segments, err := ListSegments(w.dir, w.name)
	if err != nil || len(segments) <= w.maxSegments {
		return
	}

	for _, s := range segments[:len(segments)-w.maxSegments] {
		if w.seg != nil && s.Path == w.seg.path {
			continue
		}
		_ = os.Remove(s.Path)
	}
}

// Current returns the path and boundary of the open segment. The path is
// empty when no segment is open.
func (w *RotatingFile) Current() (string, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seg == nil {
		return "", time.Time{}
	}
	return w.seg.path, w.seg.start
}

// Degraded reports whether the last write attempt failed.
func (w *RotatingFile) Degraded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.degraded
}

// Sync implements Sink.
func (w *RotatingFile) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seg != nil {
		return w.seg.file.Sync()
	}
	return nil
}

// Close implements Sink.
func (w *RotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.seg == nil {
		return nil
	}
	err := w.seg.file.Close()
	w.seg = nil
	return err
}
