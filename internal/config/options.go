package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/record"
)

// Options is the raw, host supplied configuration.
// Unset fields are filled with defaults by Resolve.
type Options struct {
	LogPath string `yaml:"logPath,omitempty" json:"logPath,omitempty"`

	Log      *StreamOptions `yaml:"log,omitempty" json:"log,omitempty"`
	Opts     *StreamOptions `yaml:"opts,omitempty" json:"opts,omitempty"`
	Request  *StreamOptions `yaml:"request,omitempty" json:"request,omitempty"`
	Response *StreamOptions `yaml:"response,omitempty" json:"response,omitempty"`
	Error    *StreamOptions `yaml:"error,omitempty" json:"error,omitempty"`

	Rotation      RotationOptions    `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	UnknownStream string             `yaml:"unknownStream,omitempty" json:"unknownStream,omitempty"`
	Async         AsyncOptions       `yaml:"async,omitempty" json:"async,omitempty"`
	Color         string             `yaml:"color,omitempty" json:"color,omitempty"`
	Diagnostics   DiagnosticsOptions `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// StreamOptions configures a single stream. Pointer booleans distinguish
// "absent" from false.
type StreamOptions struct {
	Enable  *bool  `yaml:"enable,omitempty" json:"enable,omitempty"`
	Console *bool  `yaml:"console,omitempty" json:"console,omitempty"`
	Rotate  *bool  `yaml:"rotate,omitempty" json:"rotate,omitempty"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Level   string `yaml:"level,omitempty" json:"level,omitempty"`
}

// RotationOptions configures the rotating file sinks.
type RotationOptions struct {
	// Unit is the rollover granularity: minute, hour (default) or day.
	Unit string `yaml:"unit,omitempty" json:"unit,omitempty"`

	// MaxSegments keeps at most this many segment files per stream.
	// Zero keeps everything.
	MaxSegments int `yaml:"maxSegments,omitempty" json:"maxSegments,omitempty"`

	// Sync fsyncs the segment after every record.
	Sync bool `yaml:"sync,omitempty" json:"sync,omitempty"`
}

// AsyncOptions enables queued delivery per stream.
type AsyncOptions struct {
	Enabled   bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	QueueSize int  `yaml:"queueSize,omitempty" json:"queueSize,omitempty"`
}

// DiagnosticsOptions configures the diagnostic logger that receives sink
// failures and dropped records.
type DiagnosticsOptions struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Bool returns a pointer to b, for building Options literals.
func Bool(b bool) *bool {
	return &b
}

// Stream returns the options of the named stream, or nil if unset.
func (o *Options) Stream(name record.StreamName) *StreamOptions {
	switch name {
	case record.StreamLog:
		return o.Log
	case record.StreamOpts:
		return o.Opts
	case record.StreamRequest:
		return o.Request
	case record.StreamResponse:
		return o.Response
	case record.StreamError:
		return o.Error
	default:
		return nil
	}
}

// SetStream replaces the options of the named stream.
func (o *Options) SetStream(name record.StreamName, so *StreamOptions) {
	switch name {
	case record.StreamLog:
		o.Log = so
	case record.StreamOpts:
		o.Opts = so
	case record.StreamRequest:
		o.Request = so
	case record.StreamResponse:
		o.Response = so
	case record.StreamError:
		o.Error = so
	}
}

// Load reads Options from a YAML file. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Load(path string) (Options, error) {
	var opts Options

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return opts, amerrors.New(amerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file %s not found", path), err).
				WithDetail("path", path).
				WithSuggestion("Run 'streamlog config init' to create one")
		}
		return opts, amerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
		return Options{}, amerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}

	return opts, nil
}

// LoadWithEnv loads path (when non-empty) and applies STREAMLOG_* overrides.
func LoadWithEnv(path string) (Options, error) {
	var opts Options
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Options{}, err
		}
		opts = loaded
	}
	opts.ApplyEnv()
	return opts, nil
}

// ApplyEnv applies STREAMLOG_* environment variable overrides.
func (o *Options) ApplyEnv() {
	if v := os.Getenv("STREAMLOG_LOG_PATH"); v != "" {
		o.LogPath = v
	}
	if v := os.Getenv("STREAMLOG_UNKNOWN_STREAM"); v != "" {
		o.UnknownStream = strings.ToLower(v)
	}
	if v := os.Getenv("STREAMLOG_ROTATION_UNIT"); v != "" {
		o.Rotation.Unit = strings.ToLower(v)
	}
	if v := os.Getenv("STREAMLOG_COLOR"); v != "" {
		o.Color = strings.ToLower(v)
	}
}

// WriteYAML writes the options as YAML.
func (o Options) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}
