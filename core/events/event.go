package events

import (
	"strconv"
	"time"
)

// Kind identifies the variant of an Event.
type Kind int

const (
	KindLogLine Kind = iota
	KindStatus
	KindConnectionCount
	KindStarted
	KindStopped
	KindError
)

var kindNames = map[Kind]string{
	KindLogLine:         "log",
	KindStatus:          "status",
	KindConnectionCount: "connections",
	KindStarted:         "started",
	KindStopped:         "stopped",
	KindError:           "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Lifecycle reports whether events of this kind change or describe the running state.
// Lifecycle events are never dropped by a Subscription.
func (k Kind) Lifecycle() bool {
	return k != KindLogLine
}

// Event is an immutable notification published on a Bus.
type Event struct {
	Kind Kind `json:"-"`
	// Type is Kind rendered as text for JSON consumers.
	Type string `json:"type"`
	// Text carries the log line, status or error message.
	Text string `json:"text,omitempty"`
	// Count is set for KindConnectionCount.
	Count int `json:"count"`
	// Instance is the ID of the server instance the event belongs to, if any.
	Instance string    `json:"instance,omitempty"`
	Time     time.Time `json:"time"`
}

func newEvent(kind Kind, text string) Event {
	return Event{Kind: kind, Type: kind.String(), Text: text, Time: time.Now()}
}

// LogLine wraps one formatted log record.
func LogLine(text string) Event {
	return newEvent(KindLogLine, text)
}

// Status carries a human-readable status message.
func Status(text string) Event {
	return newEvent(KindStatus, text)
}

// ConnectionCount reports the number of connected clients.
func ConnectionCount(n int) Event {
	e := newEvent(KindConnectionCount, "")
	e.Count = n
	return e
}

// Started signals that the server is bound and accepting connections.
func Started() Event {
	return newEvent(KindStarted, "")
}

// Stopped signals that the server has released its port.
func Stopped() Event {
	return newEvent(KindStopped, "")
}

// Error carries a human-readable failure message.
func Error(text string) Event {
	return newEvent(KindError, text)
}

// WithInstance returns a copy of e tagged with a server instance ID.
func (e Event) WithInstance(id string) Event {
	e.Instance = id
	return e
}
