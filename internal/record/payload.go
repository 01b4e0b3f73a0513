package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Payload is the body of a record: either Text or Structured.
type Payload interface {
	// Encode renders the payload for a log line. Text is Go-quoted and
	// Structured is a JSON object, so the result never contains a newline.
	Encode() (string, error)
	// Display renders the payload for humans (console, viewer).
	Display() string

	isPayload()
}

// Text is a plain message payload.
type Text string

// Encode implements Payload.
func (t Text) Encode() (string, error) {
	return strconv.Quote(string(t)), nil
}

// Display implements Payload.
func (t Text) Display() string {
	return string(t)
}

func (Text) isPayload() {}

// Structured is a key/value payload encoded as a JSON object.
type Structured map[string]any

// Encode implements Payload. Keys are emitted in sorted order.
func (s Structured) Encode() (string, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(s))
	if err != nil {
		return "", fmt.Errorf("encode structured payload: %w", err)
	}
	return string(b), nil
}

// Display implements Payload.
func (s Structured) Display() string {
	out, err := s.Encode()
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(s))
	}
	return out
}

func (Structured) isPayload() {}
