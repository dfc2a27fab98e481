package commands

import (
	"errors"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"
)

var ErrJoinBulkOrderCommandIsNotConstructed = errors.New(
	"JoinBulkOrderCommand must be created via NewJoinBulkOrderCommand constructor",
)

// JoinBulkOrderCommand adds a resident's individual order to today's bulk
// order of their apartment.
type JoinBulkOrderCommand struct {
	apartmentID kernel.UUID
	orderID     kernel.UUID

	guard guard.ConstructorGuard
}

// NewJoinBulkOrderCommand creates the command.
func NewJoinBulkOrderCommand(apartmentID, orderID kernel.UUID) (JoinBulkOrderCommand, error) {
	if err := errors.Join(apartmentID.Validate(), orderID.Validate()); err != nil {
		return JoinBulkOrderCommand{}, err
	}

	return JoinBulkOrderCommand{
		apartmentID: apartmentID,
		orderID:     orderID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c JoinBulkOrderCommand) Validate() error {
	return c.guard.Validate(ErrJoinBulkOrderCommandIsNotConstructed)
}

func (c JoinBulkOrderCommand) ApartmentID() kernel.UUID { return c.apartmentID }
func (c JoinBulkOrderCommand) OrderID() kernel.UUID     { return c.orderID }
