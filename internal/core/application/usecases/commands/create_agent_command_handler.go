package commands

import (
	"context"

	"kirana/internal/core/domain/model/agent"
)

// CreateAgentCommandHandler persists a new agent. Registering the same actor
// twice fails with errs.ConcurrencyConflictError from the repository.
type CreateAgentCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewCreateAgentCommandHandler creates the handler.
func NewCreateAgentCommandHandler(uowFactory AgentUoWFactory) CreateAgentCommandHandler {
	return CreateAgentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle registers the agent in the offline state.
func (h CreateAgentCommandHandler) Handle(ctx context.Context, command CreateAgentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := agent.NewAgent(command.AgentID(), command.Name())
	if err != nil {
		return err
	}

	if err = uow.AgentRepository().Add(ctx, a); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
