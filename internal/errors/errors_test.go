package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("disk full")

	// When: wrapping with LogError
	logErr := SinkWriteError("file", "request", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, logErr)
	assert.Equal(t, originalErr, errors.Unwrap(logErr))
	assert.True(t, errors.Is(logErr, originalErr))
}

func TestLogError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *LogError
		expected string
	}{
		{
			name:     "config error",
			err:      ConfigError("invalid level \"loud\"", nil),
			expected: `[ERR_102_CONFIG_INVALID] invalid level "loud"`,
		},
		{
			name:     "unknown stream",
			err:      UnknownStreamError("audit"),
			expected: `[ERR_401_UNKNOWN_STREAM] unknown stream "audit"`,
		},
		{
			name:     "cause is appended",
			err:      SinkWriteError("file", "error", errors.New("no space left on device")),
			expected: "[ERR_202_SINK_WRITE] file sink failed for stream error: no space left on device",
		},
		{
			name:     "wrapped cause is not repeated",
			err:      Wrap(ErrCodeInternal, errors.New("boom")),
			expected: "[ERR_501_INTERNAL] boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestLogError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := SinkWriteError("file", "log", nil)
	err2 := SinkWriteError("console", "request", nil)

	// Then: they match by code, and match the sentinel
	assert.True(t, errors.Is(err1, err2))
	assert.True(t, errors.Is(err1, ErrSinkWrite))
	assert.False(t, errors.Is(err1, ErrConfig))
}

func TestLogError_Is_ThroughFmtWrapping(t *testing.T) {
	// Given: a DirectoryError wrapped by fmt.Errorf
	err := fmt.Errorf("configure: %w", DirectoryError("/var/log/x", os.ErrPermission))

	// Then: sentinel matching and cause matching both work
	assert.True(t, errors.Is(err, ErrDirectory))
	assert.True(t, errors.Is(err, os.ErrPermission))
	var le *LogError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeLogDirUnavailable, le.Code)
	assert.Equal(t, CategoryIO, le.Category)
	assert.True(t, IsFatal(err))
}

func TestLogError_WithDetails_AddsContext(t *testing.T) {
	err := New(ErrCodeInternal, "unexpected", nil)

	err = err.WithDetail("stream", "opts").WithDetail("sink", "file")

	assert.Equal(t, "opts", err.Details["stream"])
	assert.Equal(t, "file", err.Details["sink"])
}

func TestConstructors_PopulateDetailsAndSuggestion(t *testing.T) {
	dirErr := DirectoryError("/tmp/logs", nil)
	assert.Equal(t, "/tmp/logs", dirErr.Details["path"])
	assert.NotEmpty(t, dirErr.Suggestion)

	sinkErr := SinkWriteError("file", "response", nil)
	assert.Equal(t, "file", sinkErr.Details["sink"])
	assert.Equal(t, "response", sinkErr.Details["stream"])

	unknown := UnknownStreamError("audit")
	assert.Equal(t, "audit", unknown.Details["stream"])
	assert.Contains(t, unknown.Suggestion, "request")
}

func TestLogError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeLogDirUnavailable, CategoryIO},
		{ErrCodeSinkWrite, CategoryIO},
		{ErrCodeUnknownStream, CategoryCaller},
		{ErrCodeInternal, CategoryInternal},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestLogError_SeverityAndRetryableFromCode(t *testing.T) {
	tests := []struct {
		code          string
		wantSeverity  Severity
		wantRetryable bool
	}{
		{ErrCodeConfigInvalid, SeverityFatal, false},
		{ErrCodeConfigNotFound, SeverityFatal, false},
		{ErrCodeLogDirUnavailable, SeverityFatal, false},
		{ErrCodeSinkWrite, SeverityWarning, true},
		{ErrCodeUnknownStream, SeverityError, false},
		{ErrCodeInternal, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantSeverity, err.Severity)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
		})
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestHelpers_StandardAndNilErrors(t *testing.T) {
	plain := errors.New("plain")

	assert.False(t, IsRetryable(plain))
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsFatal(plain))
	assert.True(t, IsRetryable(SinkWriteError("file", "log", plain)))
}
