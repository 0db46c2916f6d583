package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/deformwatch/config"
)

// OutputManager handles run output: events.csv, the plain-text event log,
// and episode summaries written on close.
type OutputManager struct {
	dir        string
	eventsFile *os.File
	eventLog   *EventLog

	eventsHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled). eventLogName may be empty to
// disable the plain-text log.
func NewOutputManager(dir, eventLogName string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventsFile = f

	if eventLogName != "" {
		log, err := OpenEventLog(filepath.Join(dir, eventLogName))
		if err != nil {
			om.eventsFile.Close()
			return nil, err
		}
		om.eventLog = log
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteEvents appends one step's events to events.csv and the event log.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}

	if !om.eventsHeaderWritten {
		if err := gocsv.Marshal(events, om.eventsFile); err != nil {
			return fmt.Errorf("writing events: %w", err)
		}
		om.eventsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(events, om.eventsFile); err != nil {
			return fmt.Errorf("writing events: %w", err)
		}
	}

	return om.eventLog.Write(events)
}

// WriteEpisodes writes episodes.csv and summary.csv from the tracker.
func (om *OutputManager) WriteEpisodes(et *EpisodeTracker) error {
	if om == nil || et == nil {
		return nil
	}

	if err := writeCSVFile(filepath.Join(om.dir, "episodes.csv"), et.Episodes()); err != nil {
		return fmt.Errorf("writing episodes: %w", err)
	}
	if err := writeCSVFile(filepath.Join(om.dir, "summary.csv"), et.Summaries()); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func writeCSVFile[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files. Calling it again is a no-op.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.eventsFile != nil {
		if err := om.eventsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		om.eventsFile = nil
	}

	if err := om.eventLog.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	om.eventLog = nil

	return firstErr
}
