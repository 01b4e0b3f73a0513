package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
)

func TestTailCmd_ShowsLastRecords(t *testing.T) {
	// Given: three records on the log stream
	isolate(t)
	_, _, err := run(t, "emit", "one", "two", "three")
	require.NoError(t, err)

	// When
	stdout, _, err := run(t, "tail", "-n", "2")

	// Then
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "INFO  [log] two"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "INFO  [log] three"), lines[1])
}

func TestTailCmd_LevelAndPatternFilters(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "emit", "--stream", "error", "--level", "info", "just info")
	require.NoError(t, err)
	_, _, err = run(t, "emit", "--stream", "error", "--level", "error", "db down", "cache down")
	require.NoError(t, err)

	stdout, _, err := run(t, "tail", "--stream", "error", "--level", "error", "--filter", "^.*db")

	require.NoError(t, err)
	assert.Contains(t, stdout, "db down")
	assert.NotContains(t, stdout, "cache down")
	assert.NotContains(t, stdout, "just info")
}

func TestTailCmd_UsesConfiguredName(t *testing.T) {
	// Given: the request stream writes req.*.log
	isolate(t)
	cfgPath := writeConfig(t, "request:\n  name: req\n")
	_, _, err := run(t, "-c", cfgPath, "emit", "--stream", "request", "hello")
	require.NoError(t, err)

	// When
	stdout, _, err := run(t, "-c", cfgPath, "tail", "--stream", "request")

	// Then
	require.NoError(t, err)
	assert.Contains(t, stdout, "[request] hello")
}

func TestTailCmd_NoSegments(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "tail")

	assert.Error(t, err)
}

func TestTailCmd_UnknownStream(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "tail", "--stream", "audit")

	assert.ErrorIs(t, err, amerrors.ErrUnknownStream)
}

func TestTailCmd_InvalidFilter(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "emit", "x")
	require.NoError(t, err)

	_, _, err = run(t, "tail", "--filter", "[unclosed")

	assert.Error(t, err)
}
