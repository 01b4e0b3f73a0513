package sink

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/ui"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestConsole_WritesPlainLineToBuffer(t *testing.T) {
	// Given: a console on a buffer (not a terminal)
	buf := &bytes.Buffer{}
	c := NewConsole(buf)

	// When: writing a warn record
	err := c.Write(record.Record{
		Time:    time.Date(2026, 10, 18, 14, 5, 6, 0, time.Local),
		Level:   record.LevelWarn,
		Stream:  record.StreamRequest,
		Payload: record.Text("slow upstream"),
	})

	// Then: one uncolored line with time, level, stream and message
	require.NoError(t, err)
	assert.Equal(t, "14:05:06.000 WARN  [request] slow upstream\n", buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConsole_ColorAlways(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf, WithColorMode(ui.ColorAlways))

	require.NoError(t, c.Write(record.Record{
		Time:    time.Now(),
		Level:   record.LevelError,
		Stream:  record.StreamError,
		Payload: record.Structured{"status": 502},
	}))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), `{"status":502}`)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestConsole_WriteErrorIsReturned(t *testing.T) {
	c := NewConsole(failingWriter{})

	err := c.Write(record.New(record.StreamLog, record.LevelInfo, record.Text("x")))
	assert.EqualError(t, err, "broken pipe")
}

func TestConsole_CloseRejectsWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf)
	require.NoError(t, c.Sync())
	require.NoError(t, c.Close())

	err := c.Write(record.New(record.StreamLog, record.LevelInfo, record.Text("x")))
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, buf.String())
}
