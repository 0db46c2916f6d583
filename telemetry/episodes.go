package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Episode is a finished contact episode of one body.
type Episode struct {
	BodyID    uint32  `csv:"body_id"`
	Body      string  `csv:"body"`
	Other     string  `csv:"other"`
	StartStep uint64  `csv:"start_step"`
	EndStep   uint64  `csv:"end_step"`
	Peak      float64 `csv:"peak"`
	Level     string  `csv:"level"`
}

// Steps returns the number of steps the body spent in contact.
func (e Episode) Steps() uint64 {
	return e.EndStep - e.StartStep
}

// BodySummary aggregates the episodes of one body.
type BodySummary struct {
	BodyID   uint32  `csv:"body_id"`
	Body     string  `csv:"body"`
	Episodes int     `csv:"episodes"`
	Rests    int     `csv:"rest_events"`
	PeakMean float64 `csv:"peak_mean"`
	PeakStd  float64 `csv:"peak_std"`
	PeakMax  float64 `csv:"peak_max"`
}

// EpisodeTracker collects contact episodes from the event stream.
type EpisodeTracker struct {
	episodes []Episode
	rests    map[uint32]int
	names    map[uint32]string
}

// NewEpisodeTracker creates a new episode tracker.
func NewEpisodeTracker() *EpisodeTracker {
	return &EpisodeTracker{
		rests: make(map[uint32]int),
		names: make(map[uint32]string),
	}
}

// Observe consumes one step's events and returns the number of episodes closed.
func (et *EpisodeTracker) Observe(events []Event) int {
	closed := 0
	for _, ev := range events {
		et.names[ev.BodyID] = ev.Body
		switch ev.Type {
		case EventSeparation:
			et.episodes = append(et.episodes, Episode{
				BodyID:    ev.BodyID,
				Body:      ev.Body,
				Other:     ev.Other,
				StartStep: ev.EpisodeStart,
				EndStep:   ev.Step,
				Peak:      ev.Peak,
				Level:     ev.Level,
			})
			closed++
		case EventRest:
			et.rests[ev.BodyID]++
		}
	}
	return closed
}

// Episodes returns all finished episodes in completion order.
func (et *EpisodeTracker) Episodes() []Episode {
	return et.episodes
}

// Summaries returns per-body peak statistics ordered by body ID.
func (et *EpisodeTracker) Summaries() []BodySummary {
	peaks := make(map[uint32][]float64)
	for _, ep := range et.episodes {
		peaks[ep.BodyID] = append(peaks[ep.BodyID], ep.Peak)
	}

	ids := make([]uint32, 0, len(et.names))
	for id := range et.names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]BodySummary, 0, len(ids))
	for _, id := range ids {
		s := BodySummary{
			BodyID:   id,
			Body:     et.names[id],
			Episodes: len(peaks[id]),
			Rests:    et.rests[id],
		}
		if p := peaks[id]; len(p) > 0 {
			s.PeakMax = floats.Max(p)
			if len(p) == 1 {
				s.PeakMean = p[0]
			} else {
				s.PeakMean, s.PeakStd = stat.MeanStdDev(p, nil)
			}
		}
		out = append(out, s)
	}
	return out
}

// LogSummary logs per-body statistics using slog.
func (et *EpisodeTracker) LogSummary() {
	for _, s := range et.Summaries() {
		slog.Info("episodes",
			"body", s.Body,
			"episodes", s.Episodes,
			"rests", s.Rests,
			"peak_mean", s.PeakMean,
			"peak_std", s.PeakStd,
			"peak_max", s.PeakMax,
		)
	}
}
