package streamlog

import (
	"log/slog"
	"time"

	"github.com/Aman-CERP/streamlog/internal/record"
)

// maxPendingProfiles bounds the number of started, not yet stopped, timers.
// The oldest is forgotten when the bound is exceeded.
const maxPendingProfiles = 1024

type profileKey struct {
	stream StreamName
	label  string
}

// Profile toggles the timer label on the log stream: the first call starts
// it, the next call with the same label stops it and emits an info record
// with the elapsed duration.
func (r *Registry) Profile(label string) error {
	return r.ProfileStream(StreamLog, label)
}

// ProfileStream is Profile on an arbitrary stream.
func (r *Registry) ProfileStream(stream StreamName, label string) error {
	if rt, err := r.lookup(stream); rt == nil {
		return err
	}

	key := profileKey{stream: stream, label: label}
	now := r.now()

	r.profileMu.Lock()
	start, running := r.timers.Peek(key)
	if running {
		r.timers.Remove(key)
	} else {
		r.add(key, now)
	}
	r.profileMu.Unlock()

	if !running {
		return nil
	}
	return r.emitProfile(stream, label, now.Sub(start))
}

// StartProfile starts (or restarts) the timer label on stream. No timer is
// kept for an unknown stream dropped by policy.
func (r *Registry) StartProfile(stream StreamName, label string) error {
	if rt, err := r.lookup(stream); rt == nil {
		return err
	}

	r.profileMu.Lock()
	r.add(profileKey{stream: stream, label: label}, r.now())
	r.profileMu.Unlock()
	return nil
}

// StopProfile stops the timer label on stream and emits an info record with
// the elapsed duration. Stopping a timer that was never started does nothing
// and returns false.
func (r *Registry) StopProfile(stream StreamName, label string) (time.Duration, bool) {
	key := profileKey{stream: stream, label: label}
	now := r.now()

	r.profileMu.Lock()
	start, running := r.timers.Peek(key)
	if running {
		r.timers.Remove(key)
	}
	r.profileMu.Unlock()

	if !running {
		r.logger.Debug("profile stopped without start",
			slog.String("stream", string(stream)),
			slog.String("label", label))
		return 0, false
	}

	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	_ = r.emitProfile(stream, label, elapsed)
	return elapsed, true
}

// add must be called with profileMu held.
func (r *Registry) add(key profileKey, start time.Time) {
	if evicted := r.timers.Add(key, start); evicted {
		r.logger.Debug("profile timer evicted, too many pending",
			slog.Int("limit", maxPendingProfiles))
	}
}

func (r *Registry) emitProfile(stream StreamName, label string, elapsed time.Duration) error {
	if elapsed < 0 {
		elapsed = 0
	}
	return r.Emit(stream, record.LevelInfo, record.Structured{
		"profile":     label,
		"duration_ms": float64(elapsed) / float64(time.Millisecond),
		"duration":    elapsed.String(),
	})
}
