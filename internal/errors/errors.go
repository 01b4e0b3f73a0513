package errors

import (
	"errors"
	"fmt"
)

// LogError is the structured error type for streamlog.
// It carries enough context for the diagnostic logger and the CLI to report
// a failure without inspecting the cause chain.
type LogError struct {
	// Code is the unique error code (e.g., "ERR_202_SINK_WRITE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Caller, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation is retried automatically.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *LogError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LogError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with LogError.
func (e *LogError) Is(target error) bool {
	if t, ok := target.(*LogError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *LogError) WithDetail(key, value string) *LogError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *LogError) WithSuggestion(suggestion string) *LogError {
	e.Suggestion = suggestion
	return e
}

// New creates a new LogError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *LogError {
	return &LogError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a LogError from an existing error.
// The error's message becomes the LogError message.
func Wrap(code string, err error) *LogError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// Sentinels for errors.Is checks; they match any error with the same code.
var (
	ErrConfig        = New(ErrCodeConfigInvalid, "invalid configuration", nil)
	ErrConfigMissing = New(ErrCodeConfigNotFound, "configuration file not found", nil)
	ErrDirectory     = New(ErrCodeLogDirUnavailable, "log directory unavailable", nil)
	ErrSinkWrite     = New(ErrCodeSinkWrite, "sink write failed", nil)
	ErrUnknownStream = New(ErrCodeUnknownStream, "unknown stream", nil)
)

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *LogError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// DirectoryError creates an error for a log directory that cannot be
// created or is not read/write accessible.
func DirectoryError(path string, cause error) *LogError {
	return New(ErrCodeLogDirUnavailable, fmt.Sprintf("log directory %s is not usable", path), cause).
		WithDetail("path", path).
		WithSuggestion("Check that the directory is writable or set logPath to another location")
}

// SinkWriteError creates an error for a sink that failed to persist a record.
func SinkWriteError(sink, stream string, cause error) *LogError {
	return New(ErrCodeSinkWrite, fmt.Sprintf("%s sink failed for stream %s", sink, stream), cause).
		WithDetail("sink", sink).
		WithDetail("stream", stream)
}

// UnknownStreamError creates an error for an emit that targets a stream the
// registry does not know about.
func UnknownStreamError(stream string) *LogError {
	return New(ErrCodeUnknownStream, fmt.Sprintf("unknown stream %q", stream), nil).
		WithDetail("stream", stream).
		WithSuggestion("Use one of: log, opts, request, response, error")
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *LogError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error chain contains a LogError with Retryable set.
func IsRetryable(err error) bool {
	var le *LogError
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort registry initialization.
func IsFatal(err error) bool {
	var le *LogError
	if errors.As(err, &le) {
		return le.Severity == SeverityFatal
	}
	return false
}
