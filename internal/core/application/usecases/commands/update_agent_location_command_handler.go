package commands

import (
	"context"

	"kirana/internal/core/domain/model/kernel"
)

// UpdateAgentLocationCommandHandler records the latest location of an agent.
type UpdateAgentLocationCommandHandler struct {
	uowFactory  AgentUoWFactory
	clock       kernel.Clock
	maxAttempts int
}

// NewUpdateAgentLocationCommandHandler creates the handler.
func NewUpdateAgentLocationCommandHandler(
	uowFactory AgentUoWFactory,
	clock kernel.Clock,
	maxAttempts int,
) UpdateAgentLocationCommandHandler {
	return UpdateAgentLocationCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: maxAttempts,
	}
}

// Handle stores the ping.
func (h UpdateAgentLocationCommandHandler) Handle(ctx context.Context, command UpdateAgentLocationCommand) error {
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

		if err = a.SetLocation(command.Location(), h.clock()); err != nil {
			return err
		}

		if err = repo.Update(ctx, a); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
