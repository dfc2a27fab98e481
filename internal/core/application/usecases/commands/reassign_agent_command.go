package commands

import (
	"errors"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"
)

var ErrReassignAgentCommandIsNotConstructed = errors.New(
	"ReassignAgentCommand must be created via NewReassignAgentCommand constructor",
)

// ReassignAgentCommand is the administrator override that moves an order to
// a chosen agent.
type ReassignAgentCommand struct {
	orderID    kernel.UUID
	newAgentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReassignAgentCommand creates the command.
func NewReassignAgentCommand(orderID, newAgentID kernel.UUID) (ReassignAgentCommand, error) {
	if err := errors.Join(orderID.Validate(), newAgentID.Validate()); err != nil {
		return ReassignAgentCommand{}, err
	}

	return ReassignAgentCommand{
		orderID:    orderID,
		newAgentID: newAgentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReassignAgentCommand) Validate() error {
	return c.guard.Validate(ErrReassignAgentCommandIsNotConstructed)
}

func (c ReassignAgentCommand) OrderID() kernel.UUID    { return c.orderID }
func (c ReassignAgentCommand) NewAgentID() kernel.UUID { return c.newAgentID }
