package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/deformwatch/config"
)

func TestNewOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("", "log.txt")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil manager methods are no-ops
	if err := om.WriteEvents([]Event{NewContactStartsEvent(1, 0, "a", "b")}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, "simulation_log.txt")
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}

	et := NewEpisodeTracker()
	steps := [][]Event{
		{NewContactStartsEvent(1, 0, "cube", "plane")},
		{NewSeparationEvent(4, 0, "cube", "plane", "low", 0.12, 1)},
	}
	for _, events := range steps {
		if err := om.WriteEvents(events); err != nil {
			t.Fatal(err)
		}
		et.Observe(events)
	}
	if err := om.WriteEpisodes(et); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(events)), "\n")
	if len(lines) != 3 {
		t.Fatalf("events.csv has %d lines, want header + 2:\n%s", len(lines), events)
	}
	if !strings.HasPrefix(lines[0], "type,step,body_id") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "separation,4,0,cube,plane,low") {
		t.Errorf("row = %q", lines[2])
	}

	for _, name := range []string{"config.yaml", "episodes.csv", "summary.csv", "simulation_log.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	logData, err := os.ReadFile(filepath.Join(dir, "simulation_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logData), "[Event] cube separates from plane after contact with low deformation.") {
		t.Errorf("event log missing separation:\n%s", logData)
	}
}
