package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/sink"
)

var base = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

func writeRecords(t *testing.T, w *sink.RotatingFile, recs ...record.Record) {
	t.Helper()
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
}

func at(offset time.Duration, level record.Level, msg string) record.Record {
	return record.Record{Time: base.Add(offset), Level: level, Stream: record.StreamRequest, Payload: record.Text(msg)}
}

func payloads(entries []LogEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Record.Payload.Display())
	}
	return out
}

func TestViewer_TailAcrossSegments(t *testing.T) {
	// Given: two hourly segments with two records each
	dir := t.TempDir()
	w := sink.NewRotatingFile(dir, "req")
	writeRecords(t, w,
		at(time.Minute, record.LevelInfo, "a"),
		at(2*time.Minute, record.LevelInfo, "b"),
		at(time.Hour+time.Minute, record.LevelInfo, "c"),
		at(time.Hour+2*time.Minute, record.LevelInfo, "d"),
	)
	require.NoError(t, w.Close())

	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	// When: tailing three entries
	entries, err := v.Tail(dir, "req", 3)

	// Then: the newest three are returned in order
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, payloads(entries))
}

func TestViewer_TailFilters(t *testing.T) {
	// Given: mixed levels
	dir := t.TempDir()
	w := sink.NewRotatingFile(dir, "req")
	writeRecords(t, w,
		at(time.Minute, record.LevelDebug, "noise"),
		at(2*time.Minute, record.LevelWarn, "slow upstream"),
		at(3*time.Minute, record.LevelError, "upstream down"),
	)
	require.NoError(t, w.Close())

	// When: filtering on warn and a pattern
	v := NewViewer(ViewerConfig{
		Level:   record.MinLevel(record.LevelWarn),
		Pattern: regexp.MustCompile(`down`),
	}, &bytes.Buffer{})
	entries, err := v.Tail(dir, "req", 10)

	// Then: only the matching record is returned
	require.NoError(t, err)
	assert.Equal(t, []string{"upstream down"}, payloads(entries))
}

func TestViewer_TailKeepsUnparseableLines(t *testing.T) {
	// Given: a segment containing a foreign line
	dir := t.TempDir()
	path := filepath.Join(dir, sink.SegmentName("req", base, sink.UnitHour))
	require.NoError(t, os.WriteFile(path, []byte("garbage line\n"), 0o644))

	var buf bytes.Buffer
	v := NewViewer(ViewerConfig{}, &buf)

	// When
	entries, err := v.Tail(dir, "req", 10)

	// Then: the raw line is shown as is
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsValid)
	v.Print(entries)
	assert.Equal(t, "garbage line\n", buf.String())
}

func TestViewer_TailNoSegments(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	_, err := v.Tail(t.TempDir(), "req", 10)

	assert.Error(t, err)
}

func TestViewer_FormatEntryPlain(t *testing.T) {
	// Given
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	r := record.Record{
		Time:    time.Date(2026, 10, 18, 14, 5, 6, 0, time.Local),
		Level:   record.LevelWarn,
		Stream:  record.StreamRequest,
		Payload: record.Text("slow upstream"),
	}

	// When
	line := v.FormatEntry(LogEntry{Record: r, IsValid: true})

	// Then: same layout as the console sink
	assert.Equal(t, "14:05:06.000 WARN  [request] slow upstream", line)
}

func TestViewer_FollowAcrossRollover(t *testing.T) {
	// Given: an empty log directory being followed
	dir := t.TempDir()
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	v.ready = func() { close(ready) }

	entries := make(chan LogEntry, 16)
	done := make(chan error, 1)
	go func() { done <- v.Follow(ctx, dir, "req", entries) }()
	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("Follow returned early: %v", err)
	}

	// When: records are written into two consecutive segments
	w := sink.NewRotatingFile(dir, "req")
	defer func() { _ = w.Close() }()
	writeRecords(t, w,
		at(time.Minute, record.LevelInfo, "first"),
		at(time.Hour+time.Minute, record.LevelInfo, "second"),
	)

	// Then: both arrive in order
	var got []string
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-entries:
			got = append(got, e.Record.Payload.Display())
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []string{"first", "second"}, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}
