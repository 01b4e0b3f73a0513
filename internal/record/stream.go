package record

// StreamName identifies a logical log stream.
type StreamName string

// The fixed set of streams a registry owns.
const (
	StreamLog      StreamName = "log"
	StreamOpts     StreamName = "opts"
	StreamRequest  StreamName = "request"
	StreamResponse StreamName = "response"
	StreamError    StreamName = "error"
)

// Streams returns every known stream in declaration order.
func Streams() []StreamName {
	return []StreamName{StreamLog, StreamOpts, StreamRequest, StreamResponse, StreamError}
}

// Known reports whether s is one of the fixed streams.
func (s StreamName) Known() bool {
	switch s {
	case StreamLog, StreamOpts, StreamRequest, StreamResponse, StreamError:
		return true
	default:
		return false
	}
}

func (s StreamName) String() string {
	return string(s)
}
