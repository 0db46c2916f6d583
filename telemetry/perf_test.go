package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStrain)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseNarrate)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}
	if _, ok := stats.PhaseAvg["strain"]; !ok {
		t.Error("expected strain phase to be tracked")
	}
	if _, ok := stats.PhaseAvg["narrate"]; !ok {
		t.Error("expected narrate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg["sinks"]; ok {
		t.Error("untimed phase should not be reported")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseContact)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
	if stats.MinStepDuration > stats.MaxStepDuration {
		t.Errorf("min %v > max %v", stats.MinStepDuration, stats.MaxStepDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseContact)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseNarrate)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["narrate"] <= stats.PhasePct["contact"] {
		t.Errorf("expected narrate (%v%%) > contact (%v%%)", stats.PhasePct["narrate"], stats.PhasePct["contact"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgStepDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPhase_String(t *testing.T) {
	if got := PhaseSinks.String(); got != "sinks" {
		t.Errorf("PhaseSinks.String() = %q", got)
	}
	if got := Phase(42).String(); got != "unknown" {
		t.Errorf("Phase(42).String() = %q", got)
	}
}
