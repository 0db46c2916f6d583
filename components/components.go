// Package components defines ECS components for tracked bodies.
package components

import "github.com/mlange-42/ark/ecs"

// ContactState is the contact transition of a body for one step.
type ContactState uint8

const (
	NoContact ContactState = iota
	ContactStarts
	ContactContinues
	ContactEnds
)

// String returns the state name.
func (s ContactState) String() string {
	switch s {
	case ContactStarts:
		return "STARTS"
	case ContactContinues:
		return "CONTINUES"
	case ContactEnds:
		return "ENDS"
	case NoContact:
		return "NO_CONTACT"
	default:
		return "UNKNOWN"
	}
}

// Deformation holds whole-body strain accumulated per step.
type Deformation struct {
	Current     float64 // Sum of element strain magnitudes this step
	Last        float64 // Current from the previous step
	Peak        float64 // Max Current during the contact episode
	StableCount int     // Consecutive in-contact steps with |Current-Last| below tolerance
	Rejected    int     // Non-finite element magnitudes dropped
}

// Contact holds the contact flags and transition for a body.
type Contact struct {
	Is           bool
	Was          bool
	State        ContactState
	ObservedStep uint64 // Step of the last observation (0 = never)

	// Partners reported during PartnerStep, in report order. Reports never
	// change Is.
	Partners    []ecs.Entity
	PartnerStep uint64
	// Most recent partner seen during the episode.
	LastPartner    ecs.Entity
	HasLastPartner bool
	EpisodeStart   uint64 // Step the current episode started
}

// Label holds the display name of a body.
type Label struct {
	Name string
}
