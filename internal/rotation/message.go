package rotation

// Severity classifies a progress message for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
	SeverityHighlight
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityError:
		return "error"
	case SeverityHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// Message is a single progress notification emitted while rotating.
type Message struct {
	Text     string
	Severity Severity
}

// Sink receives messages as they are produced. Publish must not block for
// long; returning an error tells the engine the observer is gone.
type Sink interface {
	Publish(Message) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Message) error

func (f SinkFunc) Publish(m Message) error { return f(m) }

// Discard drops every message.
var Discard Sink = SinkFunc(func(Message) error { return nil })
