package services

import (
	"errors"
	"math"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
)

// ErrNoAgentsAvailable is returned when no eligible agent remains.
var ErrNoAgentsAvailable = errors.New("no agents available right now")

// AgentSelector is a domain service that picks the agent with the lowest cost
// for a pickup point.
//
// Selection rules:
//   - only eligible agents (available or busy, below the cap) are considered
//   - agents whose id is in exclude are skipped; the assignment retry loop
//     uses this to drop agents that lost a binding race
//   - the lowest cost wins; on a tie the first agent in input order wins
//
// Example:
//
//	selector := services.NewAgentSelector(services.ScoredCost)
//	best, err := selector.Select(order.Shop().Location(), agents, nil)
//	if errors.Is(err, services.ErrNoAgentsAvailable) {
//	    // nobody can take the order now
//	}
type AgentSelector struct {
	cost CostFunc
}

// NewAgentSelector creates a selector around cost. A nil cost means ScoredCost.
func NewAgentSelector(cost CostFunc) AgentSelector {
	if cost == nil {
		cost = ScoredCost
	}
	return AgentSelector{cost: cost}
}

// Select returns the cheapest eligible agent for pickup, which may be nil
// when the store location is unknown.
func (s AgentSelector) Select(
	pickup *kernel.Location,
	agents []*agent.Agent,
	exclude map[kernel.UUID]struct{},
) (*agent.Agent, error) {
	var (
		best     *agent.Agent
		bestCost = math.MaxFloat64
	)

	for _, a := range agents {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if !a.IsEligible() {
			continue
		}
		if _, skip := exclude[a.ID()]; skip {
			continue
		}

		c := s.cost(DistanceKm(pickup, a.Location()), a.ActiveDeliveries())
		if c < bestCost {
			bestCost = c
			best = a
		}
	}

	if best == nil {
		return nil, ErrNoAgentsAvailable
	}
	return best, nil
}
