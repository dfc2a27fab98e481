package commands

import (
	"context"

	"kirana/internal/core/domain/model/kernel"
)

// ReassignAgentCommandHandler rebinds an order to the agent chosen by an
// administrator. The previous agent is released before the new one is bound
// so workload is never counted twice; both happen in one transaction.
type ReassignAgentCommandHandler struct {
	uowFactory  UoWFactory
	clock       kernel.Clock
	maxAttempts int
}

// NewReassignAgentCommandHandler creates the handler.
func NewReassignAgentCommandHandler(uowFactory UoWFactory, clock kernel.Clock, maxAttempts int) ReassignAgentCommandHandler {
	return ReassignAgentCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: maxAttempts,
	}
}

// Handle applies the override and returns the new binding.
func (h ReassignAgentCommandHandler) Handle(ctx context.Context, command ReassignAgentCommand) (Assignment, error) {
	if err := command.Validate(); err != nil {
		return Assignment{}, err
	}

	var result Assignment
	err := retryOnConflict(ctx, h.maxAttempts, func() error {
		var attemptErr error
		result, attemptErr = h.attempt(ctx, command)
		return attemptErr
	})
	if err != nil {
		return Assignment{}, err
	}
	return result, nil
}

func (h ReassignAgentCommandHandler) attempt(ctx context.Context, command ReassignAgentCommand) (Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Assignment{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	agentRepo := uow.AgentRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return Assignment{}, err
	}

	next, err := agentRepo.Get(ctx, command.NewAgentID())
	if err != nil {
		return Assignment{}, err
	}

	batchID, err := batchFor(ctx, orderRepo.FindBatchForAgent, next)
	if err != nil {
		return Assignment{}, err
	}

	now := h.clock()
	previous, err := o.Reassign(next.ID(), batchID, now)
	if err != nil {
		return Assignment{}, err
	}

	if previous != nil {
		if err = releaseAgent(ctx, agentRepo, *previous, now); err != nil {
			return Assignment{}, err
		}
	}

	if err = next.Bind(now); err != nil {
		return Assignment{}, err
	}
	if err = agentRepo.Update(ctx, next); err != nil {
		return Assignment{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return Assignment{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Assignment{}, err
	}

	return Assignment{AgentID: next.ID(), BatchID: batchID}, nil
}
