package services

import (
	"fmt"
	"strings"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
)

const (
	// PenaltyDistanceKm is used when either side of a distance is unknown, so
	// agents that never reported a position are ranked behind nearby agents
	// without being excluded.
	PenaltyDistanceKm = 10.0

	distanceWeight = 2.0
	workloadWeight = 1.5
)

// CostFunc ranks an agent for a pickup; lower is better.
type CostFunc func(distanceKm float64, activeDeliveries int) float64

// ScoredCost weighs distance to the pickup and current workload:
// cost = distance*2.0 + active*1.5.
func ScoredCost(distanceKm float64, activeDeliveries int) float64 {
	return distanceKm*distanceWeight + float64(activeDeliveries)*workloadWeight
}

// LeastLoadedCost ignores distance and prefers the agent with the fewest
// active deliveries.
func LeastLoadedCost(_ float64, activeDeliveries int) float64 {
	return float64(activeDeliveries)
}

// DistanceKm returns the great-circle distance between two optional
// locations, or PenaltyDistanceKm when either one is unknown.
func DistanceKm(a, b *kernel.Location) float64 {
	if a == nil || b == nil {
		return PenaltyDistanceKm
	}
	d, err := a.DistanceKm(*b)
	if err != nil {
		return PenaltyDistanceKm
	}
	return d
}

// Strategy names a cost function.
type Strategy string

const (
	// StrategyScored is used when an operator asks for an assignment.
	StrategyScored Strategy = "scored"
	// StrategyLeastLoaded is used by automatic assignment on ReadyForPickup.
	StrategyLeastLoaded Strategy = "least-loaded"
)

// ParseStrategy accepts "scored" or "least-loaded"; empty means scored.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrategyScored, nil
	case StrategyScored, StrategyLeastLoaded:
		return st, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("strategy", fmt.Errorf("%q is not a known strategy", s))
	}
}

// CostFunc returns the cost function of the strategy.
func (s Strategy) CostFunc() CostFunc {
	if s == StrategyLeastLoaded {
		return LeastLoadedCost
	}
	return ScoredCost
}
