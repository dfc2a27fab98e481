package commands

import (
	"context"

	"kirana/internal/core/domain/model/kernel"
)

// SetAgentAvailabilityCommandHandler changes the agent status. The active
// delivery counter is never touched here.
type SetAgentAvailabilityCommandHandler struct {
	uowFactory  AgentUoWFactory
	clock       kernel.Clock
	maxAttempts int
}

// NewSetAgentAvailabilityCommandHandler creates the handler.
func NewSetAgentAvailabilityCommandHandler(
	uowFactory AgentUoWFactory,
	clock kernel.Clock,
	maxAttempts int,
) SetAgentAvailabilityCommandHandler {
	return SetAgentAvailabilityCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: maxAttempts,
	}
}

// Handle applies the new status. It is retried when a concurrent bind or
// release moved the agent's version.
func (h SetAgentAvailabilityCommandHandler) Handle(ctx context.Context, command SetAgentAvailabilityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.maxAttempts, func() error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.AgentRepository()
		a, err := repo.Get(ctx, command.AgentID())
		if err != nil {
			return err
		}

		if err = a.SetAvailability(command.Status(), h.clock()); err != nil {
			return err
		}

		if err = repo.Update(ctx, a); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
