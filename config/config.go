// Package config provides configuration loading for the detector and its harness.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all detector configuration parameters.
type Config struct {
	Severity  SeverityConfig  `yaml:"severity"`
	Rest      RestConfig      `yaml:"rest"`
	Names     NamesConfig     `yaml:"names"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Scenario  ScenarioConfig  `yaml:"scenario"`
}

// SeverityConfig holds the deformation classification thresholds.
type SeverityConfig struct {
	Boundaries []float64 `yaml:"boundaries"` // 5 strictly ascending values
}

// RestConfig holds rest detection parameters.
type RestConfig struct {
	MinStableSteps int     `yaml:"min_stable_steps"` // Rest when stable run > this
	DeltaTolerance float64 `yaml:"delta_tolerance"`  // Max per-step deformation change counted as stable
}

// NamesConfig holds display-name settings.
type NamesConfig struct {
	Unknown string `yaml:"unknown"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int    `yaml:"perf_window"`
	LogEvents  bool   `yaml:"log_events"`
	EventLog   string `yaml:"event_log"` // file name inside the output dir; empty disables
}

// ScenarioConfig holds synthetic scenario parameters.
type ScenarioConfig struct {
	Seed           int64   `yaml:"seed"`
	NoiseScale     float64 `yaml:"noise_scale"`
	NoiseAmplitude float64 `yaml:"noise_amplitude"`
}

// Default returns the embedded defaults. It panics if they do not parse,
// which can only happen if defaults.yaml is broken at build time.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that thresholds are usable.
func (c *Config) Validate() error {
	b := c.Severity.Boundaries
	if len(b) != 5 {
		return fmt.Errorf("severity.boundaries: want 5 values, got %d", len(b))
	}
	for i, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("severity.boundaries[%d]: invalid value %v", i, v)
		}
		if i > 0 && v <= b[i-1] {
			return fmt.Errorf("severity.boundaries: not strictly ascending at index %d", i)
		}
	}
	if c.Rest.MinStableSteps < 0 {
		return fmt.Errorf("rest.min_stable_steps: must be >= 0, got %d", c.Rest.MinStableSteps)
	}
	if !(c.Rest.DeltaTolerance > 0) {
		return fmt.Errorf("rest.delta_tolerance: must be > 0, got %v", c.Rest.DeltaTolerance)
	}
	if c.Telemetry.PerfWindow < 1 {
		return fmt.Errorf("telemetry.perf_window: must be >= 1, got %d", c.Telemetry.PerfWindow)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
