package streamlog

import (
	"github.com/Aman-CERP/streamlog/internal/config"
	"github.com/Aman-CERP/streamlog/internal/record"
)

// Configuration types.
type (
	Options            = config.Options
	StreamOptions      = config.StreamOptions
	RotationOptions    = config.RotationOptions
	AsyncOptions       = config.AsyncOptions
	DiagnosticsOptions = config.DiagnosticsOptions
	Config             = config.Config
	StreamConfig       = config.StreamConfig
)

// Record types.
type (
	Level      = record.Level
	StreamName = record.StreamName
	Payload    = record.Payload
	Text       = record.Text
	Structured = record.Structured
	Record     = record.Record
)

// Levels.
const (
	LevelTrace = record.LevelTrace
	LevelDebug = record.LevelDebug
	LevelInfo  = record.LevelInfo
	LevelWarn  = record.LevelWarn
	LevelError = record.LevelError
)

// Streams.
const (
	StreamLog      = record.StreamLog
	StreamOpts     = record.StreamOpts
	StreamRequest  = record.StreamRequest
	StreamResponse = record.StreamResponse
	StreamError    = record.StreamError
)

// Unknown stream policies.
const (
	PolicyError = config.PolicyError
	PolicyDrop  = config.PolicyDrop
)

// Bool returns a pointer to b, for StreamOptions literals.
func Bool(b bool) *bool {
	return config.Bool(b)
}

// LoadOptions reads Options from a YAML file (when path is non-empty) and
// applies STREAMLOG_* environment overrides.
func LoadOptions(path string) (Options, error) {
	return config.LoadWithEnv(path)
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	return record.ParseLevel(s)
}
