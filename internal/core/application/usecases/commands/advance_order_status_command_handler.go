package commands

import (
	"context"
	"errors"
	"log/slog"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"
)

// AgentAssigner binds an individual order to an agent.
type AgentAssigner interface {
	Handle(ctx context.Context, command AssignAgentCommand) (Assignment, error)
}

// OrderState is the order as the caller sees it once the transition and any
// automatic assignment are done.
type OrderState struct {
	OrderID        kernel.UUID
	Status         order.Status
	DeliveryStatus order.DeliveryStatus
	AgentID        *kernel.UUID
	BatchID        *kernel.UUID
}

func orderStateOf(o *order.Order) OrderState {
	return OrderState{
		OrderID:        o.ID(),
		Status:         o.Status(),
		DeliveryStatus: o.DeliveryStatus(),
		AgentID:        o.AgentID(),
		BatchID:        o.BatchID(),
	}
}

// AdvanceOrderStatusCommandHandler applies shop-side transitions.
//
// Cancelling an order whose agent still holds a slot releases that slot in the
// same transaction. Reaching ReadyForPickup triggers a least-loaded assignment
// after the transition is committed; a failed assignment is logged and leaves
// the order ready for the next attempt, the transition itself stands.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	assigner    AgentAssigner
	clock       kernel.Clock
	logger      *slog.Logger
	recorder    AssignmentRecorder
	maxAttempts int
}

// NewAdvanceOrderStatusCommandHandler creates the handler.
func NewAdvanceOrderStatusCommandHandler(
	uowFactory UoWFactory,
	assigner AgentAssigner,
	clock kernel.Clock,
	logger *slog.Logger,
	maxAttempts int,
) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		assigner:    assigner,
		clock:       clock,
		logger:      logger.With("component", "advance-order-status"),
		maxAttempts: maxAttempts,
	}
}

// WithRecorder returns a copy of the handler that counts automatic
// assignments.
func (h AdvanceOrderStatusCommandHandler) WithRecorder(r AssignmentRecorder) AdvanceOrderStatusCommandHandler {
	h.recorder = r
	return h
}

// Handle applies the transition and returns the resulting order, including
// the agent bound by the automatic assignment when it succeeded.
func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, command AdvanceOrderStatusCommand) (OrderState, error) {
	if err := command.Validate(); err != nil {
		return OrderState{}, err
	}

	var state OrderState
	err := retryOnConflict(ctx, h.maxAttempts, func() error {
		var attemptErr error
		state, attemptErr = h.attempt(ctx, command)
		return attemptErr
	})
	if err != nil {
		return OrderState{}, err
	}

	if command.Target() == order.StatusReadyForPickup && state.AgentID == nil {
		if result, ok := h.autoAssign(ctx, command.OrderID()); ok {
			state.AgentID = &result.AgentID
			state.BatchID = &result.BatchID
			state.DeliveryStatus = order.DeliveryAssigned
		}
	}
	return state, nil
}

func (h AdvanceOrderStatusCommandHandler) attempt(ctx context.Context, command AdvanceOrderStatusCommand) (OrderState, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderState{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return OrderState{}, err
	}

	now := h.clock()
	bound := o.ActiveAgentID()
	if err = o.AdvanceStatus(command.Target(), now); err != nil {
		return OrderState{}, err
	}

	if command.Target() == order.StatusCancelled && bound != nil {
		if err = releaseAgent(ctx, uow.AgentRepository(), *bound, now); err != nil {
			return OrderState{}, err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return OrderState{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderState{}, err
	}

	return orderStateOf(o), nil
}

func (h AdvanceOrderStatusCommandHandler) autoAssign(ctx context.Context, orderID kernel.UUID) (Assignment, bool) {
	cmd, err := NewAssignAgentCommand(orderID, services.StrategyLeastLoaded)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build assignment command", "order_id", orderID.String(), "error", err)
		return Assignment{}, false
	}

	result, err := h.assigner.Handle(ctx, cmd)
	if h.recorder != nil {
		h.recorder.RecordAssignment(ctx, "order", string(services.StrategyLeastLoaded), TriggerReady, err)
	}
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "order assigned automatically",
			"order_id", orderID.String(),
			"agent_id", result.AgentID.String(),
			"batch_id", result.BatchID.String())
	case errors.Is(err, services.ErrNoAgentsAvailable), errors.Is(err, order.ErrAlreadyAssigned):
		h.logger.WarnContext(ctx, "automatic assignment skipped", "order_id", orderID.String(), "reason", err.Error())
	default:
		h.logger.ErrorContext(ctx, "automatic assignment failed", "order_id", orderID.String(), "error", err)
	}
	return result, err == nil
}
