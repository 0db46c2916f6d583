// Package systems contains ECS systems run once per step over tracked bodies.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/deformwatch/components"
)

// DeriveContactState maps the previous and current contact flags to a transition.
func DeriveContactState(was, is bool) components.ContactState {
	switch {
	case !was && is:
		return components.ContactStarts
	case was && !is:
		return components.ContactEnds
	case was && is:
		return components.ContactContinues
	default:
		return components.NoContact
	}
}

// CurrentPartners returns the partners reported during step, or nil when
// none were.
func CurrentPartners(c *components.Contact, step uint64) []ecs.Entity {
	if c.PartnerStep != step {
		return nil
	}
	return c.Partners
}

// ObserveContact records the contact flag of a body for the given step.
// The first observation in a step shifts Is into Was; later observations in
// the same step only replace Is, so the transition is always relative to the
// previous step no matter how often the flag is pushed.
func ObserveContact(c *components.Contact, is bool, step uint64) {
	if c.ObservedStep != step {
		c.Was = c.Is
		c.ObservedStep = step
	}
	c.Is = is
	c.State = DeriveContactState(c.Was, c.Is)
}

// AddPartner records a contact partner reported during the step. The first
// report in a step drops the partners of earlier steps. The contact flag is
// left alone; it comes from ObserveContact only.
func AddPartner(c *components.Contact, partner ecs.Entity, step uint64) {
	if c.PartnerStep != step {
		c.PartnerStep = step
		c.Partners = c.Partners[:0]
	}
	for _, p := range c.Partners {
		if p == partner {
			return
		}
	}
	c.Partners = append(c.Partners, partner)
}

// ContactSystem advances the contact state machine of every body once per step.
type ContactSystem struct {
	filter *ecs.Filter1[components.Contact]
}

// NewContactSystem creates a new contact system.
func NewContactSystem(w *ecs.World) *ContactSystem {
	return &ContactSystem{
		filter: ecs.NewFilter1[components.Contact](w),
	}
}

// Settle rolls bodies that received no contact push during step.
// Their flag carries over from the previous step.
func (s *ContactSystem) Settle(step uint64) {
	query := s.filter.Query()
	for query.Next() {
		c := query.Get()
		if c.ObservedStep != step {
			ObserveContact(c, c.Is, step)
		}
	}
}
