// Package telemetry provides event records, event sinks, episode statistics
// and step timing for the detector.
package telemetry

import (
	"fmt"
	"log/slog"
)

// EventType identifies narration events.
type EventType uint8

const (
	EventContactStarts EventType = iota
	EventSeparation
	EventRest
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventContactStarts:
		return "contact_starts"
	case EventSeparation:
		return "separation"
	case EventRest:
		return "rest"
	default:
		return "unknown"
	}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t EventType) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Event represents a single narration event.
type Event struct {
	Type   EventType `csv:"type"`
	Step   uint64    `csv:"step"`
	BodyID uint32    `csv:"body_id"`
	Body   string    `csv:"body"`
	Other  string    `csv:"other"`

	// Set for separation and rest events
	Level string  `csv:"level"`
	Peak  float64 `csv:"peak"`

	// First step of the contact episode (separation only)
	EpisodeStart uint64 `csv:"episode_start"`

	Text string `csv:"text"`
}

// NewContactStartsEvent creates a contact start event.
func NewContactStartsEvent(step uint64, bodyID uint32, body, other string) Event {
	return Event{
		Type:   EventContactStarts,
		Step:   step,
		BodyID: bodyID,
		Body:   body,
		Other:  other,
		Text:   fmt.Sprintf("%s enters contact with %s.", body, other),
	}
}

// NewSeparationEvent creates a separation event closing a contact episode.
func NewSeparationEvent(step uint64, bodyID uint32, body, other, level string, peak float64, episodeStart uint64) Event {
	return Event{
		Type:         EventSeparation,
		Step:         step,
		BodyID:       bodyID,
		Body:         body,
		Other:        other,
		Level:        level,
		Peak:         peak,
		EpisodeStart: episodeStart,
		Text:         fmt.Sprintf("%s separates from %s after contact with %s deformation.", body, other, level),
	}
}

// NewRestEvent creates a rest event for a body settled in contact.
func NewRestEvent(step uint64, bodyID uint32, body, other, level string, peak float64) Event {
	return Event{
		Type:   EventRest,
		Step:   step,
		BodyID: bodyID,
		Body:   body,
		Other:  other,
		Level:  level,
		Peak:   peak,
		Text:   fmt.Sprintf("%s comes to rest on %s with %s deformation.", body, other, level),
	}
}

// String returns the narration text.
func (e Event) String() string {
	return e.Text
}

// Log logs the event using slog.
func (e Event) Log() {
	slog.Info("event",
		"type", e.Type.String(),
		"step", e.Step,
		"body", e.Body,
		"other", e.Other,
		"text", e.Text,
	)
}
