package commands

import (
	"context"
	"errors"
	"fmt"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
)

// ErrAgentNotBound is returned when an agent reports progress on an order
// that is bound to somebody else.
var ErrAgentNotBound = errors.New("order is not bound to this agent")

// AdvanceDeliveryStatusCommandHandler applies agent-side transitions. When
// the delivery completes the agent's slot is released in the same transaction
// as the order update, so the release happens exactly once.
type AdvanceDeliveryStatusCommandHandler struct {
	uowFactory  UoWFactory
	clock       kernel.Clock
	maxAttempts int
}

// NewAdvanceDeliveryStatusCommandHandler creates the handler.
func NewAdvanceDeliveryStatusCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	maxAttempts int,
) AdvanceDeliveryStatusCommandHandler {
	return AdvanceDeliveryStatusCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: maxAttempts,
	}
}

// Handle applies the transition.
func (h AdvanceDeliveryStatusCommandHandler) Handle(ctx context.Context, command AdvanceDeliveryStatusCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.maxAttempts, func() error {
		return h.attempt(ctx, command)
	})
}

func (h AdvanceDeliveryStatusCommandHandler) attempt(ctx context.Context, command AdvanceDeliveryStatusCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if o.AgentID() == nil || !o.AgentID().IsEqual(command.AgentID()) {
		return fmt.Errorf("%w: order %s, agent %s", ErrAgentNotBound, o.ID(), command.AgentID())
	}

	now := h.clock()
	if err = o.AdvanceDelivery(command.Target(), command.CodConfirmed(), now); err != nil {
		return err
	}

	if command.Target() == order.DeliveryDelivered {
		if err = releaseAgent(ctx, uow.AgentRepository(), command.AgentID(), now); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
