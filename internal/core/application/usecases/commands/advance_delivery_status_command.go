package commands

import (
	"errors"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/guard"
)

var ErrAdvanceDeliveryStatusCommandIsNotConstructed = errors.New(
	"AdvanceDeliveryStatusCommand must be created via NewAdvanceDeliveryStatusCommand constructor",
)

// AdvanceDeliveryStatusCommand is issued by the agent client to report
// pickup, departure and handover. codConfirmed tells that cash was collected.
type AdvanceDeliveryStatusCommand struct {
	orderID      kernel.UUID
	agentID      kernel.UUID
	target       order.DeliveryStatus
	codConfirmed bool

	guard guard.ConstructorGuard
}

// NewAdvanceDeliveryStatusCommand creates the command for the acting agent.
func NewAdvanceDeliveryStatusCommand(
	orderID, agentID kernel.UUID,
	target order.DeliveryStatus,
	codConfirmed bool,
) (AdvanceDeliveryStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), agentID.Validate(), target.Validate()); err != nil {
		return AdvanceDeliveryStatusCommand{}, err
	}

	return AdvanceDeliveryStatusCommand{
		orderID:      orderID,
		agentID:      agentID,
		target:       target,
		codConfirmed: codConfirmed,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryStatusCommandIsNotConstructed)
}

func (c AdvanceDeliveryStatusCommand) OrderID() kernel.UUID         { return c.orderID }
func (c AdvanceDeliveryStatusCommand) AgentID() kernel.UUID         { return c.agentID }
func (c AdvanceDeliveryStatusCommand) Target() order.DeliveryStatus { return c.target }
func (c AdvanceDeliveryStatusCommand) CodConfirmed() bool           { return c.codConfirmed }
