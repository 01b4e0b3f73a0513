package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the fixed-width UTC timestamp used in log lines.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// AppendLine appends the line encoding of r, including the trailing newline:
//
//	2026-10-18T12:04:05.000123Z WARN  request "slow upstream"
//	2026-10-18T12:04:05.000456Z INFO  log {"duration_ms":12.5,"profile":"build"}
func AppendLine(buf []byte, r Record) ([]byte, error) {
	payload := "{}"
	if r.Payload != nil {
		p, err := r.Payload.Encode()
		if err != nil {
			return buf, err
		}
		payload = p
	}

	buf = r.Time.UTC().AppendFormat(buf, TimeLayout)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.Label()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Stream...)
	buf = append(buf, ' ')
	buf = append(buf, payload...)
	buf = append(buf, '\n')
	return buf, nil
}

// ParseLine decodes a line produced by AppendLine. The trailing newline is optional.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")

	ts, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Record{}, fmt.Errorf("malformed line: missing level")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Record{}, fmt.Errorf("malformed line: bad timestamp: %w", err)
	}

	rest = strings.TrimLeft(rest, " ")
	lvl, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return Record{}, fmt.Errorf("malformed line: missing stream")
	}
	level, err := ParseLevel(lvl)
	if err != nil {
		return Record{}, fmt.Errorf("malformed line: %w", err)
	}

	rest = strings.TrimLeft(rest, " ")
	stream, raw, ok := strings.Cut(rest, " ")
	if !ok || stream == "" {
		return Record{}, fmt.Errorf("malformed line: missing payload")
	}

	payload, err := parsePayload(raw)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Time:    t,
		Level:   level,
		Stream:  StreamName(stream),
		Payload: payload,
	}, nil
}

func parsePayload(raw string) (Payload, error) {
	switch {
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed line: bad text payload: %w", err)
		}
		return Text(s), nil
	case strings.HasPrefix(raw, "{"):
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("malformed line: bad structured payload: %w", err)
		}
		return Structured(m), nil
	default:
		return nil, fmt.Errorf("malformed line: unknown payload kind")
	}
}
