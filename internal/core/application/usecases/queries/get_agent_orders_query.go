// Package queries contains read operations for retrieving fulfillment state.
// Query handlers read straight from the database and return flat read
// models; they never load aggregates or open a unit of work, except where a
// domain rule is needed to derive a field.
package queries

import (
	"errors"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetAgentOrdersQueryIsNotConstructed = errors.New(
	"GetAgentOrdersQuery must be created via NewGetAgentOrdersQuery constructor",
)

// GetAgentOrdersQuery lists the orders an agent is currently delivering.
//
// Example:
//
//	query, err := NewGetAgentOrdersQuery(agentID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetAgentOrdersQuery struct {
	agentID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetAgentOrdersQuery(agentID kernel.UUID) (GetAgentOrdersQuery, error) {
	if err := agentID.Validate(); err != nil {
		return GetAgentOrdersQuery{}, err
	}
	return GetAgentOrdersQuery{agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAgentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentOrdersQueryIsNotConstructed)
}

func (q GetAgentOrdersQuery) AgentID() kernel.UUID { return q.agentID }

// GetAgentOrdersQueryResponse is one order in the agent's bag, with the shop
// snapshot needed to navigate to pickup.
type GetAgentOrdersQueryResponse struct {
	OrderID         kernel.UUID
	BatchID         *kernel.UUID
	Status          string
	DeliveryStatus  string
	PaymentMethod   string
	CodConfirmed    bool
	TotalAmount     decimal.Decimal
	ShopName        string
	ShopAddress     string
	ShopLocation    *kernel.Location
	CustomerAddress string
	CreatedAt       time.Time
}
