package commands

import (
	"context"
	"errors"
	"fmt"

	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"
)

// AssignBulkOrderAgentCommandHandler binds a bulk order to one agent as a
// single delivery unit. The apartment is the reference point for distance.
// Binding takes one slot of the agent's delivery cap, like an individual order.
type AssignBulkOrderAgentCommandHandler struct {
	uowFactory  UoWFactory
	clock       kernel.Clock
	maxAttempts int
}

// NewAssignBulkOrderAgentCommandHandler creates the handler.
func NewAssignBulkOrderAgentCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	maxAttempts int,
) AssignBulkOrderAgentCommandHandler {
	return AssignBulkOrderAgentCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: maxAttempts,
	}
}

// Handle binds the bulk order and returns the chosen agent id.
func (h AssignBulkOrderAgentCommandHandler) Handle(
	ctx context.Context,
	command AssignBulkOrderAgentCommand,
) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	selector := services.NewAgentSelector(command.Strategy().CostFunc())
	exclude := make(map[kernel.UUID]struct{})

	var agentID kernel.UUID
	err := retryOnConflict(ctx, h.maxAttempts, func() error {
		var attemptErr error
		agentID, attemptErr = h.attempt(ctx, command.BulkOrderKey(), selector, exclude)
		return attemptErr
	})
	if err != nil {
		return kernel.UUID{}, err
	}
	return agentID, nil
}

func (h AssignBulkOrderAgentCommandHandler) attempt(
	ctx context.Context,
	key string,
	selector services.AgentSelector,
	exclude map[kernel.UUID]struct{},
) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bulkRepo := uow.BulkOrderRepository()
	agentRepo := uow.AgentRepository()

	b, err := bulkRepo.Get(ctx, key)
	if err != nil {
		return kernel.UUID{}, err
	}
	if b.AgentID() != nil {
		return kernel.UUID{}, fmt.Errorf("%w: bulk order %s", bulkorder.ErrAlreadyAssigned, key)
	}

	apt, err := uow.ApartmentRepository().Get(ctx, b.ApartmentID())
	if err != nil {
		return kernel.UUID{}, err
	}

	agents, err := agentRepo.GetAllEligible(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}

	best, err := selector.Select(apt.Location(), agents, exclude)
	if err != nil {
		return kernel.UUID{}, err
	}

	now := h.clock()
	if err = best.Bind(now); err != nil {
		return kernel.UUID{}, err
	}
	if err = b.AssignAgent(best.ID(), now); err != nil {
		return kernel.UUID{}, err
	}

	if err = agentRepo.Update(ctx, best); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			exclude[best.ID()] = struct{}{}
		}
		return kernel.UUID{}, err
	}

	if err = bulkRepo.Update(ctx, b); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return best.ID(), nil
}
