package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/sink"
)

func readStream(t *testing.T, dir, name string) []record.Record {
	t.Helper()
	segments, err := sink.ListSegments(dir, name)
	require.NoError(t, err)

	var recs []record.Record
	for _, seg := range segments {
		data, err := os.ReadFile(seg.Path)
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			r, err := record.ParseLine(line)
			require.NoError(t, err)
			recs = append(recs, r)
		}
	}
	return recs
}

func TestEmitCmd_WritesConsoleAndFile(t *testing.T) {
	// Given
	dir := isolate(t)

	// When
	stdout, _, err := run(t, "emit", "--stream", "request", "--level", "warn", "GET /slow", "GET /slower")

	// Then
	require.NoError(t, err)
	assert.Contains(t, stdout, "WARN  [request] GET /slow\n")
	assert.Contains(t, stdout, "[request] GET /slower\n")

	recs := readStream(t, dir, "request")
	require.Len(t, recs, 2)
	assert.Equal(t, record.LevelWarn, recs[0].Level)
	assert.Equal(t, record.Text("GET /slow"), recs[0].Payload)
}

func TestEmitCmd_JSONPayload(t *testing.T) {
	dir := isolate(t)

	_, _, err := run(t, "emit", "--json", `{"path":"/api","ms":1200}`)

	require.NoError(t, err)
	recs := readStream(t, dir, "log")
	require.Len(t, recs, 1)
	assert.Equal(t, record.Structured{"path": "/api", "ms": 1200.0}, recs[0].Payload)
}

func TestEmitCmd_InvalidJSON(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "emit", "--json", "not json")

	assert.Error(t, err)
}

func TestEmitCmd_UnknownStream(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "emit", "--stream", "audit", "x")

	assert.ErrorIs(t, err, amerrors.ErrUnknownStream)
}

func TestEmitCmd_InvalidLevel(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "emit", "--level", "loud", "x")

	assert.ErrorIs(t, err, amerrors.ErrConfig)
}

func TestEmitCmd_RespectsConfigFile(t *testing.T) {
	// Given: request renamed and filtered at warn, console off
	dir := isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "streamlog.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("request:\n  name: req\n  level: warn\n  console: false\n"), 0o644))

	// When: an info record is emitted, then a warn record
	stdout, _, err := run(t, "-c", cfgPath, "emit", "--stream", "request", "dropped")
	require.NoError(t, err)
	_, _, err = run(t, "-c", cfgPath, "emit", "--stream", "request", "--level", "warn", "kept")
	require.NoError(t, err)

	// Then
	assert.Empty(t, stdout)
	recs := readStream(t, dir, "req")
	require.Len(t, recs, 1)
	assert.Equal(t, record.Text("kept"), recs[0].Payload)
}

func TestEmitCmd_RequiresMessage(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "emit")

	assert.Error(t, err)
}
