package record

import "time"

// Record is a single log event. Records are created at emit time and are not
// retained after delivery.
type Record struct {
	Time    time.Time
	Level   Level
	Stream  StreamName
	Payload Payload
}

// New creates a record stamped with the current time.
func New(stream StreamName, level Level, payload Payload) Record {
	return Record{
		Time:    time.Now(),
		Level:   level,
		Stream:  stream,
		Payload: payload,
	}
}

// NewAt creates a record stamped with t.
func NewAt(t time.Time, stream StreamName, level Level, payload Payload) Record {
	return Record{
		Time:    t,
		Level:   level,
		Stream:  stream,
		Payload: payload,
	}
}
