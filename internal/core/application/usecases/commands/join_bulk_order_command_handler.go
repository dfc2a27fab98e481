package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"
)

// JoinResult is the state of the bulk order right after a join.
type JoinResult struct {
	Key           string
	TotalFamilies int
	TotalAmount   decimal.Decimal
	TotalItems    int
}

// JoinPolicy carries the values a new bulk order is opened with.
type JoinPolicy struct {
	DeliveryFeeDiscount decimal.Decimal
	DeliveryLeadTime    time.Duration
}

// JoinBulkOrderCommandHandler is the bulk aggregator.
//
// Each attempt resolves the open window, finds or creates the bulk order for
// the apartment and the current day and appends the participant. Two joins
// on the same key race on the version of the bulk order row (or on its
// primary key when both try to create it); the loser re-reads and tries
// again, so no participant is lost and totals always match the list.
type JoinBulkOrderCommandHandler struct {
	uowFactory  UoWFactory
	resolver    services.WindowResolver
	clock       kernel.Clock
	policy      JoinPolicy
	maxAttempts int
}

// NewJoinBulkOrderCommandHandler creates the handler. clock must report time
// in the marketplace timezone, since it fixes the day of the natural key.
func NewJoinBulkOrderCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	policy JoinPolicy,
	maxAttempts int,
) JoinBulkOrderCommandHandler {
	return JoinBulkOrderCommandHandler{
		uowFactory:  uowFactory,
		resolver:    services.NewWindowResolver(),
		clock:       clock,
		policy:      policy,
		maxAttempts: maxAttempts,
	}
}

// Handle performs the join. A conflict that survives every attempt is
// returned as errs.ConcurrencyConflictError so the caller can ask the
// resident to try again.
func (h JoinBulkOrderCommandHandler) Handle(ctx context.Context, command JoinBulkOrderCommand) (JoinResult, error) {
	if err := command.Validate(); err != nil {
		return JoinResult{}, err
	}

	var result JoinResult
	err := retryOnConflict(ctx, h.maxAttempts, func() error {
		var attemptErr error
		result, attemptErr = h.attempt(ctx, command)
		return attemptErr
	})
	if err != nil {
		return JoinResult{}, err
	}
	return result, nil
}

func (h JoinBulkOrderCommandHandler) attempt(ctx context.Context, command JoinBulkOrderCommand) (JoinResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return JoinResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()

	apt, err := uow.ApartmentRepository().Get(ctx, command.ApartmentID())
	if err != nil {
		return JoinResult{}, err
	}
	window, err := h.resolver.Resolve(apt, now)
	if err != nil {
		return JoinResult{}, err
	}

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return JoinResult{}, err
	}
	if o.Status().IsTerminal() {
		return JoinResult{}, fmt.Errorf("%w: order %s is %s", bulkorder.ErrNotJoinable, o.ID(), o.Status())
	}

	participant, err := bulkorder.ParticipantFromOrder(o, now)
	if err != nil {
		return JoinResult{}, err
	}

	bulkRepo := uow.BulkOrderRepository()
	key := bulkorder.NaturalKey(apt.ID(), now)

	b, err := bulkRepo.Get(ctx, key)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		b, err = bulkorder.NewBulkOrder(apt.ID(), now, window, h.policy.DeliveryFeeDiscount, h.policy.DeliveryLeadTime)
		if err != nil {
			return JoinResult{}, err
		}
		if err = b.Join(participant, now); err != nil {
			return JoinResult{}, err
		}
		if err = bulkRepo.Add(ctx, b); err != nil {
			return JoinResult{}, err
		}
	case err != nil:
		return JoinResult{}, err
	default:
		if err = b.Join(participant, now); err != nil {
			return JoinResult{}, err
		}
		if err = bulkRepo.Update(ctx, b); err != nil {
			return JoinResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return JoinResult{}, err
	}

	return JoinResult{
		Key:           b.Key(),
		TotalFamilies: b.TotalFamilies(),
		TotalAmount:   b.TotalAmount(),
		TotalItems:    b.TotalItems(),
	}, nil
}
