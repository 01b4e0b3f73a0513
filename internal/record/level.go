// Package record defines the log record model shared by sinks, routers and
// the registry: severity levels, stream names, payloads and the on-disk line
// encoding.
package record

import (
	"fmt"
	"strings"
)

// Level is the severity of a record. Levels are ordered: Trace < Debug < Info < Warn < Error.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int8(l))
	}
}

// Label returns the upper-case, fixed-width (5 chars) name used in log lines.
func (l Level) Label() string {
	return fmt.Sprintf("%-5s", strings.ToUpper(l.String()))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelError
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and "warning" is accepted for warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q (use trace, debug, info, warn, error or *)", s)
	}
}

// Wildcard is the level filter value that admits every level.
const Wildcard = "*"

// LevelFilter is the minimum severity a record needs to be routed.
// The zero value admits every level.
type LevelFilter struct {
	min Level
	set bool
}

// AllLevels returns the wildcard filter.
func AllLevels() LevelFilter {
	return LevelFilter{}
}

// MinLevel returns a filter admitting l and everything above it.
func MinLevel(l Level) LevelFilter {
	return LevelFilter{min: l, set: true}
}

// ParseFilter parses a level name, or "*" / "" for the wildcard.
func ParseFilter(s string) (LevelFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == Wildcard {
		return AllLevels(), nil
	}
	l, err := ParseLevel(s)
	if err != nil {
		return LevelFilter{}, err
	}
	return MinLevel(l), nil
}

// Allows reports whether a record at level l passes the filter.
func (f LevelFilter) Allows(l Level) bool {
	return !f.set || l >= f.min
}

// IsWildcard reports whether the filter admits every level.
func (f LevelFilter) IsWildcard() bool {
	return !f.set
}

// String returns the configuration form of the filter ("*" or a level name).
func (f LevelFilter) String() string {
	if !f.set {
		return Wildcard
	}
	return f.min.String()
}
