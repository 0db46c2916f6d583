// Package detector ties the strain gauge, contact state machine and narration
// into a per-simulation event detector.
//
// Each simulation step follows the same order: reset and accumulate element
// strain, push contact flags and contact pairs, then call Step once.
package detector

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/deformwatch/components"
	"github.com/pthm-cable/deformwatch/config"
	"github.com/pthm-cable/deformwatch/strain"
	"github.com/pthm-cable/deformwatch/systems"
	"github.com/pthm-cable/deformwatch/telemetry"
)

// Body is a stable handle for a tracked body.
type Body struct {
	entity ecs.Entity
}

// BodyRecord is a read-only snapshot of a body's state.
type BodyRecord struct {
	Name          string
	Current       float64
	Last          float64
	Peak          float64
	IsContacting  bool
	WasContacting bool
	StableCount   int
	Rejected      int
	State         components.ContactState
}

// Detector tracks bodies keyed by an engine identity K.
// It is not safe for concurrent use; run one detector per simulation.
type Detector[K comparable] struct {
	world    *ecs.World
	mapper   *ecs.Map3[components.Deformation, components.Contact, components.Label]
	defMap   *ecs.Map1[components.Deformation]
	conMap   *ecs.Map1[components.Contact]
	labelMap *ecs.Map1[components.Label]
	defs     *ecs.Filter1[components.Deformation]

	index map[K]ecs.Entity

	gauge     *strain.Gauge
	contact   *systems.ContactSystem
	narration *systems.NarrationSystem
	perf      *telemetry.PerfCollector

	unknown string
	step    uint64
	events  []telemetry.Event
}

// New creates a detector from the given configuration. An empty boundary
// list selects systems.DefaultBoundaries.
func New[K comparable](cfg *config.Config) (*Detector[K], error) {
	bounds := cfg.Severity.Boundaries
	if len(bounds) == 0 {
		bounds = systems.DefaultBoundaries[:]
	}
	classifier, err := systems.NewClassifier(bounds)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	unknown := cfg.Names.Unknown
	if unknown == "" {
		unknown = "?"
	}

	world := ecs.NewWorld()
	rest := systems.RestPolicy{
		MinStableSteps: cfg.Rest.MinStableSteps,
		DeltaTolerance: cfg.Rest.DeltaTolerance,
	}

	return &Detector[K]{
		world:     world,
		mapper:    ecs.NewMap3[components.Deformation, components.Contact, components.Label](world),
		defMap:    ecs.NewMap1[components.Deformation](world),
		conMap:    ecs.NewMap1[components.Contact](world),
		labelMap:  ecs.NewMap1[components.Label](world),
		defs:      ecs.NewFilter1[components.Deformation](world),
		index:     make(map[K]ecs.Entity),
		gauge:     strain.NewGauge(),
		contact:   systems.NewContactSystem(world),
		narration: systems.NewNarrationSystem(world, classifier, rest, unknown),
		unknown:   unknown,
		step:      1,
	}, nil
}

// SetPerf attaches a perf collector timing the contact and narration phases.
// The caller owns StartTick/EndTick.
func (d *Detector[K]) SetPerf(p *telemetry.PerfCollector) {
	d.perf = p
}

// Track returns the handle for key, creating a zeroed record on first use.
func (d *Detector[K]) Track(key K) Body {
	return Body{entity: d.entity(key)}
}

// Lookup returns the handle for key without creating it.
func (d *Detector[K]) Lookup(key K) (Body, bool) {
	e, ok := d.index[key]
	return Body{entity: e}, ok
}

// Len returns the number of tracked bodies.
func (d *Detector[K]) Len() int {
	return len(d.index)
}

// CurrentStep returns the step that the next Step call will narrate.
func (d *Detector[K]) CurrentStep() uint64 {
	return d.step
}

func (d *Detector[K]) entity(key K) ecs.Entity {
	if e, ok := d.index[key]; ok {
		return e
	}
	e := d.mapper.NewEntity(&components.Deformation{}, &components.Contact{}, &components.Label{})
	d.index[key] = e
	return e
}

// SetName registers the display name of a body.
func (d *Detector[K]) SetName(key K, name string) {
	d.labelMap.Get(d.entity(key)).Name = name
}

// Name returns the display name of a body, or the unknown placeholder.
func (d *Detector[K]) Name(key K) string {
	e, ok := d.index[key]
	if !ok {
		return d.unknown
	}
	if name := d.labelMap.Get(e).Name; name != "" {
		return name
	}
	return d.unknown
}

// ResetDeformation zeroes the current deformation of one body.
func (d *Detector[K]) ResetDeformation(key K) {
	d.defMap.Get(d.entity(key)).Current = 0
}

// BeginStep zeroes the current deformation of every tracked body.
func (d *Detector[K]) BeginStep() {
	query := d.defs.Query()
	for query.Next() {
		query.Get().Current = 0
	}
}

// AccumulateDeformation adds a strain magnitude to the body's current deformation.
// Negative and non-finite amounts are dropped and counted as rejected.
func (d *Detector[K]) AccumulateDeformation(key K, amount float64) {
	def := d.defMap.Get(d.entity(key))
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		def.Rejected++
		return
	}
	def.Current += amount
}

// AccumulateStrain measures one element's deformation gradient and adds it
// to the body. Returns the element magnitude.
func (d *Detector[K]) AccumulateStrain(key K, f strain.Mat3) float64 {
	m := d.gauge.Magnitude(f)
	d.AccumulateDeformation(key, m)
	return m
}

// SetContacting pushes the body's contact flag for the current step.
func (d *Detector[K]) SetContacting(key K, contacting bool) {
	systems.ObserveContact(d.conMap.Get(d.entity(key)), contacting, d.step)
}

// ReportContact records an active contact pair for the current step so the
// narration can name each body's partner. It does not touch either body's
// contact flag; that comes from SetContacting only, so a static partner that
// is never pushed is never narrated.
func (d *Detector[K]) ReportContact(a, b K) {
	ea, eb := d.entity(a), d.entity(b)
	systems.AddPartner(d.conMap.Get(ea), eb, d.step)
	systems.AddPartner(d.conMap.Get(eb), ea, d.step)
}

// Transition returns the contact transition the body has for the current
// step, as Step would narrate it, without changing any state. Bodies with no
// push this step keep their previous flag.
func (d *Detector[K]) Transition(key K) components.ContactState {
	e, ok := d.index[key]
	if !ok {
		return components.NoContact
	}
	c := d.conMap.Get(e)
	if c.ObservedStep == d.step {
		return c.State
	}
	return systems.DeriveContactState(c.Is, c.Is)
}

// Record returns a snapshot of the body's state.
func (d *Detector[K]) Record(key K) BodyRecord {
	e := d.entity(key)
	def := d.defMap.Get(e)
	con := d.conMap.Get(e)
	return BodyRecord{
		Name:          d.Name(key),
		Current:       def.Current,
		Last:          def.Last,
		Peak:          def.Peak,
		IsContacting:  con.Is,
		WasContacting: con.Was,
		StableCount:   def.StableCount,
		Rejected:      def.Rejected,
		State:         con.State,
	}
}

// Step settles contact transitions, narrates every body and advances to the
// next step. The returned slice is reused by the next call.
func (d *Detector[K]) Step() []telemetry.Event {
	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseContact)
	}
	d.contact.Settle(d.step)

	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseNarrate)
	}
	d.events = d.narration.Update(d.step, d.events[:0])

	d.step++
	return d.events
}
