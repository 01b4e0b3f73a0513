// Package config resolves streamlog options into an immutable configuration.
package config

import (
	"fmt"
	"strings"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/logging"
	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/sink"
	"github.com/Aman-CERP/streamlog/internal/ui"
)

// UnknownStreamPolicy decides what Emit does with a stream it does not know.
type UnknownStreamPolicy string

const (
	// PolicyError returns an UnknownStreamError to the caller.
	PolicyError UnknownStreamPolicy = "error"
	// PolicyDrop drops the record and notes it on the diagnostic logger.
	PolicyDrop UnknownStreamPolicy = "drop"
)

// DefaultQueueSize is the per-stream queue capacity in async mode.
const DefaultQueueSize = 1024

// Config is the resolved configuration. It is not modified after Configure.
type Config struct {
	LogPath       string
	Streams       map[record.StreamName]StreamConfig
	Rotation      RotationConfig
	UnknownStream UnknownStreamPolicy
	Async         AsyncConfig
	Color         ui.ColorMode
	Diagnostics   logging.Config
}

// StreamConfig is the resolved configuration of one stream.
type StreamConfig struct {
	Stream  record.StreamName
	Enabled bool
	Console bool
	Rotate  bool
	Name    string
	Filter  record.LevelFilter
}

// RotationConfig is the resolved rotation policy shared by all file sinks.
type RotationConfig struct {
	Unit        sink.Unit
	MaxSegments int
	Sync        bool
}

// AsyncConfig is the resolved queueing policy.
type AsyncConfig struct {
	Enabled   bool
	QueueSize int
}

// DefaultStream returns the defaults for a stream: everything on, file named
// after the stream, all levels.
func DefaultStream(name record.StreamName) StreamConfig {
	return StreamConfig{
		Stream:  name,
		Enabled: true,
		Console: true,
		Rotate:  true,
		Name:    string(name),
		Filter:  record.AllLevels(),
	}
}

// Resolve merges opts over the defaults and validates the result.
// User values win; defaults only fill absent fields.
func Resolve(opts Options) (*Config, error) {
	cfg := &Config{
		LogPath: opts.LogPath,
		Streams: make(map[record.StreamName]StreamConfig, len(record.Streams())),
	}
	if strings.TrimSpace(cfg.LogPath) == "" {
		cfg.LogPath = logging.DefaultLogDir()
	}

	for _, name := range record.Streams() {
		sc, err := resolveStream(name, opts.Stream(name))
		if err != nil {
			return nil, err
		}
		cfg.Streams[name] = sc
	}

	unit, err := sink.ParseUnit(opts.Rotation.Unit)
	if err != nil {
		return nil, amerrors.ConfigError("invalid rotation.unit", err).WithDetail("unit", opts.Rotation.Unit)
	}
	cfg.Rotation = RotationConfig{Unit: unit, MaxSegments: opts.Rotation.MaxSegments, Sync: opts.Rotation.Sync}

	policy, err := parsePolicy(opts.UnknownStream)
	if err != nil {
		return nil, amerrors.ConfigError("invalid unknownStream", err)
	}
	cfg.UnknownStream = policy

	cfg.Async = AsyncConfig{Enabled: opts.Async.Enabled, QueueSize: opts.Async.QueueSize}
	if cfg.Async.Enabled && cfg.Async.QueueSize == 0 {
		cfg.Async.QueueSize = DefaultQueueSize
	}

	color, err := ui.ParseColorMode(opts.Color)
	if err != nil {
		return nil, amerrors.ConfigError("invalid color", err)
	}
	cfg.Color = color

	cfg.Diagnostics = logging.DefaultConfig()
	if opts.Diagnostics.Level != "" {
		cfg.Diagnostics.Level = strings.ToLower(strings.TrimSpace(opts.Diagnostics.Level))
		if cfg.Diagnostics.Level == "warning" {
			cfg.Diagnostics.Level = "warn"
		}
	}
	if opts.Diagnostics.Format != "" {
		cfg.Diagnostics.Format = strings.ToLower(opts.Diagnostics.Format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveStream(name record.StreamName, so *StreamOptions) (StreamConfig, error) {
	sc := DefaultStream(name)
	if so == nil {
		return sc, nil
	}
	if so.Enable != nil {
		sc.Enabled = *so.Enable
	}
	if so.Console != nil {
		sc.Console = *so.Console
	}
	if so.Rotate != nil {
		sc.Rotate = *so.Rotate
	}
	if so.Name != "" {
		sc.Name = so.Name
	}
	filter, err := record.ParseFilter(so.Level)
	if err != nil {
		return sc, amerrors.ConfigError(fmt.Sprintf("invalid level for stream %s", name), err).
			WithDetail("stream", string(name)).
			WithDetail("level", so.Level)
	}
	sc.Filter = filter
	return sc, nil
}

func parsePolicy(s string) (UnknownStreamPolicy, error) {
	switch UnknownStreamPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyError:
		return PolicyError, nil
	case PolicyDrop:
		return PolicyDrop, nil
	default:
		return "", fmt.Errorf("unknown policy %q (use error or drop)", s)
	}
}

// Validate checks the resolved configuration and returns a ConfigError if
// it is invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LogPath) == "" {
		return amerrors.ConfigError("logPath must not be empty", nil)
	}

	owners := make(map[string]record.StreamName)
	for _, name := range record.Streams() {
		sc, ok := c.Streams[name]
		if !ok {
			return amerrors.ConfigError(fmt.Sprintf("stream %s is not configured", name), nil)
		}
		if err := validateName(sc.Name); err != nil {
			return amerrors.ConfigError(fmt.Sprintf("invalid name for stream %s", name), err).
				WithDetail("stream", string(name)).
				WithDetail("name", sc.Name)
		}
		if !sc.Enabled || !sc.Rotate {
			continue
		}
		if other, dup := owners[sc.Name]; dup {
			return amerrors.ConfigError(
				fmt.Sprintf("streams %s and %s both write files named %q", other, name, sc.Name), nil).
				WithSuggestion("Give each rotating stream its own name")
		}
		owners[sc.Name] = name
	}

	if c.Rotation.MaxSegments < 0 {
		return amerrors.ConfigError(fmt.Sprintf("rotation.maxSegments must be non-negative, got %d", c.Rotation.MaxSegments), nil)
	}
	if c.Async.QueueSize < 0 {
		return amerrors.ConfigError(fmt.Sprintf("async.queueSize must be non-negative, got %d", c.Async.QueueSize), nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Diagnostics.Level] {
		return amerrors.ConfigError(fmt.Sprintf("diagnostics.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Diagnostics.Level), nil)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Diagnostics.Format] {
		return amerrors.ConfigError(fmt.Sprintf("diagnostics.format must be 'text' or 'json', got %s", c.Diagnostics.Format), nil)
	}

	return nil
}

// validateName rejects file names that are empty or would escape the log
// directory.
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("name is empty")
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("name %q is reserved", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("name %q contains a NUL byte", name)
	}
	return nil
}

// Stream returns the resolved configuration of a stream.
func (c *Config) Stream(name record.StreamName) (StreamConfig, bool) {
	sc, ok := c.Streams[name]
	return sc, ok
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() Config {
	out := *c
	out.Streams = make(map[record.StreamName]StreamConfig, len(c.Streams))
	for k, v := range c.Streams {
		out.Streams[k] = v
	}
	out.Diagnostics.Output = nil
	return out
}

// Options converts the resolved configuration back into fully populated
// Options, for display and for writing templates.
func (c *Config) Options() Options {
	opts := Options{
		LogPath: c.LogPath,
		Rotation: RotationOptions{
			Unit:        string(c.Rotation.Unit),
			MaxSegments: c.Rotation.MaxSegments,
			Sync:        c.Rotation.Sync,
		},
		UnknownStream: string(c.UnknownStream),
		Async:         AsyncOptions{Enabled: c.Async.Enabled, QueueSize: c.Async.QueueSize},
		Color:         string(c.Color),
		Diagnostics:   DiagnosticsOptions{Level: c.Diagnostics.Level, Format: c.Diagnostics.Format},
	}
	for _, name := range record.Streams() {
		sc := c.Streams[name]
		opts.SetStream(name, &StreamOptions{
			Enable:  Bool(sc.Enabled),
			Console: Bool(sc.Console),
			Rotate:  Bool(sc.Rotate),
			Name:    sc.Name,
			Level:   sc.Filter.String(),
		})
	}
	return opts
}
