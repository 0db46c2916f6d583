package telemetry

import (
	"math"
	"testing"
)

func TestEpisodeTracker_Summaries(t *testing.T) {
	et := NewEpisodeTracker()

	et.Observe([]Event{NewContactStartsEvent(1, 0, "cube", "plane")})
	et.Observe([]Event{NewRestEvent(5, 0, "cube", "plane", "low", 0.12)})
	if n := et.Observe([]Event{NewSeparationEvent(8, 0, "cube", "plane", "low", 0.1, 1)}); n != 1 {
		t.Errorf("Observe closed %d episodes, want 1", n)
	}
	et.Observe([]Event{
		NewSeparationEvent(20, 0, "cube", "plane", "medium", 0.3, 12),
		NewContactStartsEvent(20, 1, "ball", "plane"),
	})

	eps := et.Episodes()
	if len(eps) != 2 {
		t.Fatalf("episodes = %d, want 2", len(eps))
	}
	if eps[0].Steps() != 7 {
		t.Errorf("first episode steps = %d, want 7", eps[0].Steps())
	}

	sums := et.Summaries()
	if len(sums) != 2 {
		t.Fatalf("summaries = %d, want 2", len(sums))
	}

	cube := sums[0]
	if cube.Body != "cube" || cube.Episodes != 2 || cube.Rests != 1 {
		t.Errorf("cube summary = %+v", cube)
	}
	if math.Abs(cube.PeakMean-0.2) > 1e-12 {
		t.Errorf("peak mean = %v, want 0.2", cube.PeakMean)
	}
	// Sample std of {0.1, 0.3}
	if want := math.Sqrt(0.02); math.Abs(cube.PeakStd-want) > 1e-12 {
		t.Errorf("peak std = %v, want %v", cube.PeakStd, want)
	}
	if cube.PeakMax != 0.3 {
		t.Errorf("peak max = %v, want 0.3", cube.PeakMax)
	}

	ball := sums[1]
	if ball.Episodes != 0 || ball.PeakMean != 0 {
		t.Errorf("ball summary = %+v, want no episodes", ball)
	}
}

func TestEpisodeTracker_SingleEpisodeHasZeroStd(t *testing.T) {
	et := NewEpisodeTracker()
	et.Observe([]Event{NewSeparationEvent(3, 4, "b", "?", "low", 0.15, 1)})

	s := et.Summaries()[0]
	if s.PeakMean != 0.15 || s.PeakStd != 0 {
		t.Errorf("summary = %+v, want mean 0.15 std 0", s)
	}
}
