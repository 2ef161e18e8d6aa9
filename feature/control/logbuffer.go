package control

import (
	"strings"
	"sync"

	"transease/core/events"
)

const (
	// MaxLogLines is the size at which the buffer is trimmed.
	MaxLogLines = 500
	// KeepLogLines is the number of most recent lines kept after a trim.
	KeepLogLines = 300
)

// LogBuffer keeps the recent log view. Once it exceeds MaxLogLines it drops all but
// the last KeepLogLines lines.
type LogBuffer struct {
	mu    sync.RWMutex
	lines []string
}

// NewLogBuffer creates an empty buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Append adds text, one entry per line.
func (b *LogBuffer) Append(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append(b.lines, strings.Split(text, "\n")...)
	if len(b.lines) > MaxLogLines {
		b.lines = append([]string(nil), b.lines[len(b.lines)-KeepLogLines:]...)
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *LogBuffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string{}, b.lines...)
}

// Len returns the number of buffered lines.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.lines = nil
	b.mu.Unlock()
}

// Follow appends every LogLine published on bus until the returned subscription is closed.
func (b *LogBuffer) Follow(bus *events.Bus) *events.Subscription {
	return bus.Handle(events.Options{Kinds: []events.Kind{events.KindLogLine}}, func(e events.Event) {
		b.Append(e.Text)
	})
}
