package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/deformwatch/components"
	"github.com/pthm-cable/deformwatch/telemetry"
)

// RestPolicy controls rest detection while in contact.
type RestPolicy struct {
	MinStableSteps int     // Rest is reported once StableCount exceeds this
	DeltaTolerance float64 // Per-step change below this counts as stable
}

// NarrationSystem turns per-body contact transitions and deformation into events.
type NarrationSystem struct {
	filter     *ecs.Filter3[components.Deformation, components.Contact, components.Label]
	labels     *ecs.Map1[components.Label]
	classifier *Classifier
	rest       RestPolicy
	unknown    string
}

// NewNarrationSystem creates a new narration system.
func NewNarrationSystem(w *ecs.World, classifier *Classifier, rest RestPolicy, unknown string) *NarrationSystem {
	return &NarrationSystem{
		filter:     ecs.NewFilter3[components.Deformation, components.Contact, components.Label](w),
		labels:     ecs.NewMap1[components.Label](w),
		classifier: classifier,
		rest:       rest,
		unknown:    unknown,
	}
}

// Update narrates every body for the step, appending events to out.
// Contact states must already be settled for the step.
func (s *NarrationSystem) Update(step uint64, out []telemetry.Event) []telemetry.Event {
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		def, con, label := query.Get()

		id := entity.ID()
		name := s.displayName(label.Name)
		level := s.classifier.Classify(def.Peak).String()

		if partners := CurrentPartners(con, step); con.Is && len(partners) > 0 {
			con.LastPartner = partners[0]
			con.HasLastPartner = true
		}

		switch con.State {
		case components.ContactStarts:
			con.EpisodeStart = step
			out = append(out, telemetry.NewContactStartsEvent(step, id, name, s.partnerName(con)))

		case components.ContactEnds:
			out = append(out, telemetry.NewSeparationEvent(step, id, name, s.partnerName(con), level, def.Peak, con.EpisodeStart))
			def.Peak = 0
			con.HasLastPartner = false

		case components.ContactContinues:
			if def.StableCount > s.rest.MinStableSteps {
				out = append(out, telemetry.NewRestEvent(step, id, name, s.partnerName(con), level, def.Peak))
			}
		}

		// Peak only grows during an episode
		if con.Is && def.Current > def.Peak {
			def.Peak = def.Current
		}

		if con.Is && math.Abs(def.Current-def.Last) < s.rest.DeltaTolerance {
			def.StableCount++
		} else {
			def.StableCount = 0
		}

		def.Last = def.Current
	}

	return out
}

// partnerName resolves the first partner reported this step, or the last
// one seen during the episode.
func (s *NarrationSystem) partnerName(con *components.Contact) string {
	if !con.HasLastPartner {
		return s.unknown
	}
	return s.displayName(s.labels.Get(con.LastPartner).Name)
}

func (s *NarrationSystem) displayName(name string) string {
	if name == "" {
		return s.unknown
	}
	return name
}
