// Package scenario drives a detector from a scripted, synthetic engine.
//
// A scenario lists bodies with a handful of elements each and a sequence of
// phases. Every phase fixes the contact flag, the contact partner and the
// stretch applied to each element; an optional spin adds rigid rotation,
// which must not register as strain.
package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ojrac/opensimplex-go"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/deformwatch/config"
	"github.com/pthm-cable/deformwatch/detector"
	"github.com/pthm-cable/deformwatch/strain"
	"github.com/pthm-cable/deformwatch/telemetry"
)

//go:embed drop.yaml
var defaultYAML []byte

// Scenario is a scripted run.
type Scenario struct {
	Name   string `yaml:"name"`
	Steps  int    `yaml:"steps"`
	Bodies []Body `yaml:"bodies"`
}

// Body is a scripted body.
type Body struct {
	Name     string  `yaml:"name"`
	Elements int     `yaml:"elements"`
	Phases   []Phase `yaml:"phases"`
}

// Phase holds the body's state for steps before Until.
type Phase struct {
	Until   int     `yaml:"until"`
	Contact bool    `yaml:"contact"`
	Partner string  `yaml:"partner"`
	Stretch float64 `yaml:"stretch"` // 0 means unstretched
	Spin    float64 `yaml:"spin"`    // radians per step
}

// Default returns the embedded drop scenario.
func Default() *Scenario {
	sc, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("scenario: embedded default: %v", err))
	}
	return sc
}

// Load reads a scenario file. An empty path returns the embedded default.
func Load(path string) (*Scenario, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks body names and phase ordering.
func (sc *Scenario) Validate() error {
	if sc.Steps < 0 {
		return fmt.Errorf("scenario %q: negative steps", sc.Name)
	}
	seen := make(map[string]bool, len(sc.Bodies))
	for _, b := range sc.Bodies {
		if b.Name == "" {
			return fmt.Errorf("scenario %q: body without name", sc.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("scenario %q: duplicate body %q", sc.Name, b.Name)
		}
		seen[b.Name] = true
		if b.Elements < 0 {
			return fmt.Errorf("body %q: negative element count", b.Name)
		}
		prev := 0
		for i, ph := range b.Phases {
			if ph.Until <= prev {
				return fmt.Errorf("body %q: phase %d ends at %d, not after %d", b.Name, i, ph.Until, prev)
			}
			prev = ph.Until
		}
	}
	for _, b := range sc.Bodies {
		for _, ph := range b.Phases {
			if ph.Partner != "" && !seen[ph.Partner] {
				return fmt.Errorf("body %q: unknown partner %q", b.Name, ph.Partner)
			}
		}
	}
	return nil
}

// phaseAt returns the phase covering step (0-based); bodies past their last
// phase or without phases are out of contact and undeformed.
func (b *Body) phaseAt(step int) Phase {
	for _, ph := range b.Phases {
		if step < ph.Until {
			return ph
		}
	}
	return Phase{}
}

// Sink receives each step's events.
type Sink func(step uint64, events []telemetry.Event) error

// Runner feeds a scenario into a detector step by step.
type Runner struct {
	sc    *Scenario
	det   *detector.Detector[string]
	perf  *telemetry.PerfCollector
	noise opensimplex.Noise

	noiseScale     float64
	noiseAmplitude float64
	step           int
}

// NewRunner creates a runner with a fresh detector.
func NewRunner(sc *Scenario, cfg *config.Config) (*Runner, error) {
	det, err := detector.New[string](cfg)
	if err != nil {
		return nil, err
	}
	for _, b := range sc.Bodies {
		det.SetName(b.Name, b.Name)
	}
	return &Runner{
		sc:             sc,
		det:            det,
		noise:          opensimplex.New(cfg.Scenario.Seed),
		noiseScale:     cfg.Scenario.NoiseScale,
		noiseAmplitude: cfg.Scenario.NoiseAmplitude,
	}, nil
}

// Detector returns the detector driven by the runner.
func (r *Runner) Detector() *detector.Detector[string] {
	return r.det
}

// SetPerf attaches a perf collector to the runner and its detector.
func (r *Runner) SetPerf(p *telemetry.PerfCollector) {
	r.perf = p
	r.det.SetPerf(p)
}

// Done reports whether the scripted steps are exhausted.
func (r *Runner) Done() bool {
	return r.step >= r.sc.Steps
}

// Step pushes one step of scripted data and returns the detector's events.
func (r *Runner) Step() []telemetry.Event {
	if r.perf != nil {
		r.perf.StartPhase(telemetry.PhaseStrain)
	}
	r.det.BeginStep()
	for bi := range r.sc.Bodies {
		b := &r.sc.Bodies[bi]
		ph := b.phaseAt(r.step)
		for e := 0; e < b.Elements; e++ {
			r.det.AccumulateStrain(b.Name, r.gradient(ph, bi, e))
		}
	}

	if r.perf != nil {
		r.perf.StartPhase(telemetry.PhaseContact)
	}
	// Bodies without scripted contact (the plane) are never flagged, so they
	// only show up as partners in the text.
	for bi := range r.sc.Bodies {
		b := &r.sc.Bodies[bi]
		ph := b.phaseAt(r.step)
		r.det.SetContacting(b.Name, ph.Contact)
		if ph.Contact && ph.Partner != "" {
			r.det.ReportContact(b.Name, ph.Partner)
		}
	}

	r.step++
	return r.det.Step()
}

// gradient builds the deformation gradient of one element: a uniaxial
// stretch with optional noise, rotated by the phase spin.
func (r *Runner) gradient(ph Phase, body, element int) strain.Mat3 {
	s := ph.Stretch
	if s == 0 {
		s = 1
	}
	if r.noiseAmplitude > 0 {
		s += r.noiseAmplitude * r.noise.Eval2(float64(r.step)*r.noiseScale, float64(body*16+element))
	}
	f := strain.Stretch(s, 1, 1)
	if ph.Spin != 0 {
		f = strain.Compose(strain.RotationZ(ph.Spin*float64(r.step)+float64(element)), f)
	}
	return f
}

// Run executes every remaining step, passing events to sink.
func (r *Runner) Run(sink Sink) error {
	for !r.Done() {
		if r.perf != nil {
			r.perf.StartTick()
		}
		step := r.det.CurrentStep()
		events := r.Step()
		if sink != nil {
			if r.perf != nil {
				r.perf.StartPhase(telemetry.PhaseSinks)
			}
			if err := sink(step, events); err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}
		}
		if r.perf != nil {
			r.perf.EndTick()
		}
	}
	return nil
}
