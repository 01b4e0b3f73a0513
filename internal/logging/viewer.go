package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/sink"
	"github.com/Aman-CERP/streamlog/internal/ui"
)

// maxLineBytes bounds a single segment line.
const maxLineBytes = 1024 * 1024

// pollInterval is the fallback re-read interval for Follow, in case a
// filesystem event is missed.
const pollInterval = 250 * time.Millisecond

// LogEntry is one line read back from a segment file.
type LogEntry struct {
	Record  record.Record
	Raw     string // Original line
	IsValid bool   // Whether the line parsed as a record
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level   record.LevelFilter // Minimum level; zero value admits all
	Pattern *regexp.Regexp     // Filter by pattern on the raw line
	Color   bool               // Colorize levels and stream labels
}

// Viewer reads stream segments back for display.
type Viewer struct {
	config ViewerConfig
	out    io.Writer
	styles ui.Styles

	ready func() // called once Follow is watching; tests only
}

// NewViewer creates a new log viewer writing to out.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	return &Viewer{
		config: cfg,
		out:    out,
		styles: ui.NewStyles(out, cfg.Color),
	}
}

// Tail returns the last n matching entries of stream file name in dir,
// reading segments newest first until enough entries are collected.
func (v *Viewer) Tail(dir, name string, n int) ([]LogEntry, error) {
	segments, err := sink.ListSegments(dir, name)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments for %q in %s", name, dir)
	}

	var entries []LogEntry
	for i := len(segments) - 1; i >= 0 && len(entries) < n; i-- {
		fileEntries, err := v.readSegment(segments[i].Path)
		if err != nil {
			return nil, err
		}
		entries = append(fileEntries, entries...)
	}

	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func (v *Viewer) readSegment(path string) ([]LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open segment: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var entries []LogEntry
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry := v.parseLine(line)
		if v.matchesFilter(entry) {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read segment %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// follower tracks the segment currently being followed.
type follower struct {
	dir, name string
	path      string
	start     time.Time
	file      *os.File
	reader    *bufio.Reader
	pending   string
}

func (f *follower) close() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
		f.reader = nil
	}
}

// open switches to seg. When fromEnd is set, existing content is skipped.
func (f *follower) open(seg sink.SegmentInfo, fromEnd bool) error {
	f.close()
	file, err := os.Open(seg.Path)
	if err != nil {
		return fmt.Errorf("failed to open segment: %w", err)
	}
	if fromEnd {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to seek to end: %w", err)
		}
	}
	f.file = file
	f.reader = bufio.NewReader(file)
	f.path = seg.Path
	f.start = seg.Start
	f.pending = ""
	return nil
}

// lines reads every complete line appended since the last call. A trailing
// partial line is kept until its newline arrives.
func (f *follower) lines() []string {
	if f.reader == nil {
		return nil
	}
	var out []string
	for {
		chunk, err := f.reader.ReadString('\n')
		if err != nil {
			f.pending += chunk
			return out
		}
		line := strings.TrimSuffix(f.pending+chunk, "\n")
		f.pending = ""
		if line != "" {
			out = append(out, line)
		}
	}
}

// Follow watches the segments of stream file name in dir and sends new
// entries to the channel, switching to the next segment on rollover.
// Blocks until ctx is cancelled.
func (v *Viewer) Follow(ctx context.Context, dir, name string, entries chan<- LogEntry) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	f := &follower{dir: dir, name: name}
	defer f.close()

	if segments, err := sink.ListSegments(dir, name); err == nil && len(segments) > 0 {
		if err := f.open(segments[len(segments)-1], true); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	if v.ready != nil {
		v.ready()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), name+".") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				break
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		case <-ticker.C:
		}

		if err := v.drain(ctx, f, entries); err != nil {
			return err
		}
	}
}

// drain forwards new lines of the current segment, then moves to a newer
// segment if one appeared and forwards its content from the start.
func (v *Viewer) drain(ctx context.Context, f *follower, entries chan<- LogEntry) error {
	if !v.send(ctx, f.lines(), entries) {
		return nil
	}

	segments, err := sink.ListSegments(f.dir, f.name)
	if err != nil || len(segments) == 0 {
		return nil
	}
	for _, seg := range segments {
		if f.file != nil && !seg.Start.After(f.start) {
			continue
		}
		if err := f.open(seg, false); err != nil {
			return err
		}
		if !v.send(ctx, f.lines(), entries) {
			return nil
		}
	}
	return nil
}

// send forwards matching lines and reports false once ctx is done.
func (v *Viewer) send(ctx context.Context, lines []string, entries chan<- LogEntry) bool {
	for _, line := range lines {
		entry := v.parseLine(line)
		if !v.matchesFilter(entry) {
			continue
		}
		select {
		case entries <- entry:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// FormatEntry formats an entry the way the console sink prints records.
func (v *Viewer) FormatEntry(entry LogEntry) string {
	if !entry.IsValid {
		return entry.Raw
	}

	r := entry.Record
	msg := ""
	if r.Payload != nil {
		msg = r.Payload.Display()
	}

	return fmt.Sprintf("%s %s %s %s",
		v.styles.Dim.Render(r.Time.Local().Format("15:04:05.000")),
		v.styles.Level(r.Level).Render(r.Level.Label()),
		v.styles.Stream.Render("["+string(r.Stream)+"]"),
		msg,
	)
}

// Print prints entries to the output.
func (v *Viewer) Print(entries []LogEntry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// parseLine parses a segment line into a LogEntry.
func (v *Viewer) parseLine(line string) LogEntry {
	entry := LogEntry{Raw: line}
	r, err := record.ParseLine(line)
	if err != nil {
		return entry
	}
	entry.Record = r
	entry.IsValid = true
	return entry
}

// matchesFilter checks if an entry matches the configured filters.
// Unparseable lines only pass when no level filter is set.
func (v *Viewer) matchesFilter(entry LogEntry) bool {
	if !v.config.Level.IsWildcard() {
		if !entry.IsValid || !v.config.Level.Allows(entry.Record.Level) {
			return false
		}
	}

	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}

	return true
}
