package commands

import (
	"context"
	"errors"
	"log/slog"

	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/services"
)

// BulkAgentAssigner is the part of AssignBulkOrderAgentCommandHandler the
// lifecycle needs for the automatic trigger on Ready.
type BulkAgentAssigner interface {
	Handle(ctx context.Context, command AssignBulkOrderAgentCommand) (kernel.UUID, error)
}

// AdvanceBulkOrderStatusCommandHandler applies bulk order transitions.
// Delivered and Cancelled release the bound agent in the same transaction.
// Reaching Ready assigns an agent to the whole bulk order after commit; a
// failure there is logged and the transition stays.
type AdvanceBulkOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	assigner    BulkAgentAssigner
	clock       kernel.Clock
	logger      *slog.Logger
	recorder    AssignmentRecorder
	maxAttempts int
}

// NewAdvanceBulkOrderStatusCommandHandler creates the handler.
func NewAdvanceBulkOrderStatusCommandHandler(
	uowFactory UoWFactory,
	assigner BulkAgentAssigner,
	clock kernel.Clock,
	logger *slog.Logger,
	maxAttempts int,
) AdvanceBulkOrderStatusCommandHandler {
	return AdvanceBulkOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		assigner:    assigner,
		clock:       clock,
		logger:      logger.With("component", "advance-bulk-order-status"),
		maxAttempts: maxAttempts,
	}
}

// WithRecorder returns a copy of the handler that counts automatic
// assignments.
func (h AdvanceBulkOrderStatusCommandHandler) WithRecorder(r AssignmentRecorder) AdvanceBulkOrderStatusCommandHandler {
	h.recorder = r
	return h
}

// Handle applies the transition.
func (h AdvanceBulkOrderStatusCommandHandler) Handle(ctx context.Context, command AdvanceBulkOrderStatusCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	var unbound bool
	err := retryOnConflict(ctx, h.maxAttempts, func() error {
		var attemptErr error
		unbound, attemptErr = h.attempt(ctx, command)
		return attemptErr
	})
	if err != nil {
		return err
	}

	if command.Target() == bulkorder.StatusReady && unbound {
		h.autoAssign(ctx, command.BulkOrderKey())
	}
	return nil
}

func (h AdvanceBulkOrderStatusCommandHandler) attempt(ctx context.Context, command AdvanceBulkOrderStatusCommand) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bulkRepo := uow.BulkOrderRepository()
	b, err := bulkRepo.Get(ctx, command.BulkOrderKey())
	if err != nil {
		return false, err
	}

	now := h.clock()
	bound := b.ActiveAgentID()
	if err = b.AdvanceStatus(command.Target(), now); err != nil {
		return false, err
	}

	if bound != nil && command.Target().IsTerminal() {
		if err = releaseAgent(ctx, uow.AgentRepository(), *bound, now); err != nil {
			return false, err
		}
	}

	if err = bulkRepo.Update(ctx, b); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return b.AgentID() == nil, nil
}

func (h AdvanceBulkOrderStatusCommandHandler) autoAssign(ctx context.Context, key string) {
	cmd, err := NewAssignBulkOrderAgentCommand(key, services.StrategyLeastLoaded)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build bulk assignment", "bulk_order_key", key, "error", err)
		return
	}

	agentID, err := h.assigner.Handle(ctx, cmd)
	if h.recorder != nil {
		h.recorder.RecordAssignment(ctx, "bulk_order", string(services.StrategyLeastLoaded), TriggerReady, err)
	}
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "bulk order assigned", "bulk_order_key", key, "agent_id", agentID.String())
	case errors.Is(err, services.ErrNoAgentsAvailable), errors.Is(err, bulkorder.ErrAlreadyAssigned):
		h.logger.WarnContext(ctx, "automatic bulk assignment skipped", "bulk_order_key", key, "error", err)
	default:
		h.logger.ErrorContext(ctx, "automatic bulk assignment failed", "bulk_order_key", key, "error", err)
	}
}
