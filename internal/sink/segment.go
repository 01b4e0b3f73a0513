package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Unit is the rollover granularity of a rotating sink.
type Unit string

const (
	UnitMinute Unit = "minute"
	UnitHour   Unit = "hour"
	UnitDay    Unit = "day"
)

// DefaultUnit is the rollover granularity used when none is configured.
const DefaultUnit = UnitHour

// ParseUnit parses a unit name. Empty means DefaultUnit.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultUnit, nil
	case UnitMinute:
		return UnitMinute, nil
	case UnitHour:
		return UnitHour, nil
	case UnitDay:
		return UnitDay, nil
	default:
		return "", fmt.Errorf("unknown rotation unit %q (use minute, hour or day)", s)
	}
}

// Truncate returns the start of the boundary containing t, in UTC.
func (u Unit) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch u {
	case UnitMinute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	case UnitDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	}
}

// layout is the boundary timestamp format used in segment file names.
// Layouts sort lexically in time order.
func (u Unit) layout() string {
	switch u {
	case UnitMinute:
		return "2006-01-02T15-04"
	case UnitDay:
		return "2006-01-02"
	default:
		return "2006-01-02T15"
	}
}

// SegmentName returns the file name of the segment of stream file name
// `name` starting at boundary start, e.g. "req.2026-10-18T14.log".
func SegmentName(name string, start time.Time, u Unit) string {
	return name + "." + start.UTC().Format(u.layout()) + ".log"
}

// SegmentInfo describes a segment file found on disk.
type SegmentInfo struct {
	Path  string
	Start time.Time
	Unit  Unit
}

// ListSegments returns the segment files for name in dir, oldest first.
// Files that merely share the prefix (another stream named "name.x") are skipped.
func ListSegments(dir, name string) ([]SegmentInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	prefix := name + "."
	var segments []SegmentInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fn := e.Name()
		if !strings.HasPrefix(fn, prefix) || !strings.HasSuffix(fn, ".log") || len(fn) <= len(prefix)+len(".log") {
			continue
		}
		stamp := fn[len(prefix) : len(fn)-len(".log")]

		for _, u := range []Unit{UnitHour, UnitDay, UnitMinute} {
			start, err := time.Parse(u.layout(), stamp)
			if err != nil {
				continue
			}
			segments = append(segments, SegmentInfo{
				Path:  filepath.Join(dir, fn),
				Start: start,
				Unit:  u,
			})
			break
		}
	}

	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Start.Equal(segments[j].Start) {
			return segments[i].Path < segments[j].Path
		}
		return segments[i].Start.Before(segments[j].Start)
	})

	return segments, nil
}
