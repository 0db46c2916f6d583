package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies a timed part of the simulation step.
type Phase uint8

// Phases of a detector step.
const (
	PhaseStrain  Phase = iota // per-element strain accumulation (caller side)
	PhaseContact              // contact pushes and settling
	PhaseNarrate              // classification and narration
	PhaseSinks                // event logs and CSV output
	numPhases
)

var phaseNames = [numPhases]string{"strain", "contact", "narrate", "sinks"}

// String returns the phase name.
func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// PerfSample holds timing data for a single step.
type PerfSample struct {
	StepDuration time.Duration
	Phases       [numPhases]time.Duration
}

// PerfCollector tracks step timing over a rolling window.
// Recording a step does not allocate.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	stepStart  time.Time
	phaseStart time.Time
	lastPhase  Phase
	inPhase    bool
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of steps to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.stepStart = time.Now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	if p.inPhase {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
	p.inPhase = true
}

// EndTick finishes timing the current step and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.inPhase {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
	p.current.StepDuration = now.Sub(p.stepStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration

	// Phase breakdown keyed by phase name
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	StepsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.StepDuration

		if i == 0 || s.StepDuration < stats.MinStepDuration {
			stats.MinStepDuration = s.StepDuration
		}
		if s.StepDuration > stats.MaxStepDuration {
			stats.MaxStepDuration = s.StepDuration
		}
		for ph, d := range s.Phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgStepDuration = total / n

	for ph, sum := range phaseSum {
		if sum == 0 {
			continue
		}
		name := Phase(ph).String()
		avg := sum / n
		stats.PhaseAvg[name] = avg
		if stats.AvgStepDuration > 0 {
			stats.PhasePct[name] = float64(avg) / float64(stats.AvgStepDuration) * 100
		}
	}

	if stats.AvgStepDuration > 0 {
		stats.StepsPerSecond = float64(time.Second) / float64(stats.AvgStepDuration)
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct, ok := s.PhasePct[ph.String()]; ok {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}
