package commands

import (
	"context"
	"errors"
	"fmt"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"
)

// Assignment is the outcome of binding an order to an agent.
type Assignment struct {
	AgentID kernel.UUID
	BatchID kernel.UUID
}

// AssignAgentCommandHandler is the assignment engine for individual orders.
//
// Each attempt runs in its own unit of work: read the order and the eligible
// agents, select the cheapest, bind it, pick the batch and persist both
// aggregates. When the agent row was changed by a concurrent bind the agent is
// excluded and the attempt is repeated, up to maxAttempts.
//
// Example:
//
//	handler := NewAssignAgentCommandHandler(uowFactory, clock, DefaultAssignmentAttempts)
//	cmd, _ := NewAssignAgentCommand(orderID, services.StrategyLeastLoaded)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrNoAgentsAvailable):
//	    log.Println("nobody free")
//	case errors.Is(err, order.ErrAlreadyAssigned):
//	    log.Println("someone else assigned it")
//	}
type AssignAgentCommandHandler struct {
	uowFactory  UoWFactory
	clock       kernel.Clock
	maxAttempts int
}

// NewAssignAgentCommandHandler creates the handler.
func NewAssignAgentCommandHandler(uowFactory UoWFactory, clock kernel.Clock, maxAttempts int) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: maxAttempts,
	}
}

// Handle binds the order and returns the chosen agent and batch.
func (h AssignAgentCommandHandler) Handle(ctx context.Context, command AssignAgentCommand) (Assignment, error) {
	if err := command.Validate(); err != nil {
		return Assignment{}, err
	}

	selector := services.NewAgentSelector(command.Strategy().CostFunc())
	exclude := make(map[kernel.UUID]struct{})

	var result Assignment
	err := retryOnConflict(ctx, h.maxAttempts, func() error {
		var attemptErr error
		result, attemptErr = h.attempt(ctx, command.OrderID(), selector, exclude)
		return attemptErr
	})
	if err != nil {
		return Assignment{}, err
	}
	return result, nil
}

func (h AssignAgentCommandHandler) attempt(
	ctx context.Context,
	orderID kernel.UUID,
	selector services.AgentSelector,
	exclude map[kernel.UUID]struct{},
) (Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Assignment{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	agentRepo := uow.AgentRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return Assignment{}, err
	}
	if o.AgentID() != nil {
		return Assignment{}, fmt.Errorf("%w: order %s", order.ErrAlreadyAssigned, o.ID())
	}

	agents, err := agentRepo.GetAllEligible(ctx)
	if err != nil {
		return Assignment{}, err
	}

	best, err := selector.Select(o.Shop().Location(), agents, exclude)
	if err != nil {
		return Assignment{}, err
	}

	now := h.clock()
	if err = best.Bind(now); err != nil {
		return Assignment{}, err
	}

	batchID, err := batchFor(ctx, orderRepo.FindBatchForAgent, best)
	if err != nil {
		return Assignment{}, err
	}

	if err = o.AssignAgent(best.ID(), batchID, now); err != nil {
		return Assignment{}, err
	}

	if err = agentRepo.Update(ctx, best); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			exclude[best.ID()] = struct{}{}
		}
		return Assignment{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return Assignment{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Assignment{}, err
	}

	return Assignment{AgentID: best.ID(), BatchID: batchID}, nil
}

// batchFor reuses the batch of another order the agent is still carrying to
// the store, or mints a new one.
func batchFor(
	ctx context.Context,
	find func(context.Context, kernel.UUID) (*kernel.UUID, error),
	a *agent.Agent,
) (kernel.UUID, error) {
	existing, err := find(ctx, a.ID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	return kernel.NewUUID(), nil
}
