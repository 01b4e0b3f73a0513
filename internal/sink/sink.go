// Package sink provides the destinations a stream router writes records to:
// a console sink and a time-rotated file sink.
package sink

import (
	"github.com/Aman-CERP/streamlog/internal/record"
)

// Sink writes a single formatted record to one destination.
//
// Implementations must be safe for concurrent use and must serialize their
// own I/O so that a record is never interleaved with another.
type Sink interface {
	// Name identifies the sink kind in error reports ("console", "file").
	Name() string
	// Write persists or displays r. Errors are returned, never retried here.
	Write(r record.Record) error
	// Sync flushes buffered data, if any.
	Sync() error
	// Close releases the destination. Writes after Close fail.
	Close() error
}
