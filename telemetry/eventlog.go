package telemetry

import (
	"fmt"
	"io"
	"os"
)

const (
	logStartBanner = "=== Sim log started ==="
	logEndBanner   = "=== Sim log ended ==="
)

// EventLog writes narration events as plain text lines.
// The start banner is written lazily with the first event.
type EventLog struct {
	w       io.Writer
	closer  io.Closer
	started bool
}

// NewEventLog creates an event log writing to w. Close does not close w.
func NewEventLog(w io.Writer) *EventLog {
	return &EventLog{w: w}
}

// OpenEventLog opens path for appending and returns a log writing to it.
func OpenEventLog(path string) (*EventLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &EventLog{w: f, closer: f}, nil
}

// Write appends one line per event.
func (l *EventLog) Write(events []Event) error {
	if l == nil || len(events) == 0 {
		return nil
	}
	if !l.started {
		if _, err := fmt.Fprintln(l.w, logStartBanner); err != nil {
			return fmt.Errorf("writing event log: %w", err)
		}
		l.started = true
	}
	for _, ev := range events {
		if _, err := fmt.Fprintf(l.w, "[Event] %s\n", ev.Text); err != nil {
			return fmt.Errorf("writing event log: %w", err)
		}
	}
	return nil
}

// Close writes the end banner if anything was logged and closes the file.
func (l *EventLog) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	if l.started {
		if _, err := fmt.Fprintln(l.w, logEndBanner); err != nil {
			firstErr = fmt.Errorf("writing event log: %w", err)
		}
		l.started = false
	}
	if l.closer != nil {
		if err := l.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.closer = nil
	}
	return firstErr
}
