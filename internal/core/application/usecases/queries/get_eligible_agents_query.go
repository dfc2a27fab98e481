package queries

import (
	"errors"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"
)

var ErrGetEligibleAgentsQueryIsNotConstructed = errors.New(
	"GetEligibleAgentsQuery must be created via NewGetEligibleAgentsQuery constructor",
)

// GetEligibleAgentsQuery lists agents that could take a delivery right now.
type GetEligibleAgentsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetEligibleAgentsQuery() GetEligibleAgentsQuery {
	return GetEligibleAgentsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetEligibleAgentsQuery) Validate() error {
	return q.guard.Validate(ErrGetEligibleAgentsQueryIsNotConstructed)
}

type GetEligibleAgentsQueryResponse struct {
	ID                kernel.UUID
	Name              string
	Status            string
	ActiveDeliveries  int
	Location          *kernel.Location
	LocationUpdatedAt *time.Time
}
