package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/streamlog/internal/record"
)

func TestNewStyles_ColorEmitsANSI(t *testing.T) {
	// Given: forced color styles on a non-terminal writer
	styles := NewStyles(&bytes.Buffer{}, true)

	// When: rendering a level label
	out := styles.Level(record.LevelError).Render("ERROR")

	// Then: ANSI escape sequences are present
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "ERROR")
}

func TestNewStyles_NoColorIsPlain(t *testing.T) {
	styles := NewStyles(&bytes.Buffer{}, false)

	for _, l := range []record.Level{record.LevelTrace, record.LevelDebug, record.LevelInfo, record.LevelWarn, record.LevelError} {
		assert.Equal(t, l.Label(), styles.Level(l).Render(l.Label()))
	}
	assert.Equal(t, "[request]", styles.Stream.Render("[request]"))
}
