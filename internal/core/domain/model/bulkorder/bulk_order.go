package bulkorder

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

// DateLayout formats the date part of the natural key.
const DateLayout = "2006-01-02"

// Domain events recorded by BulkOrder.
const (
	EventJoined        = "bulk_order.joined"
	EventStatusChanged = "bulk_order.status_changed"
	EventAgentAssigned = "bulk_order.agent_assigned"

	aggregateType = "bulk_order"
)

var (
	// ErrBulkOrderIsNotConstructed is returned when using a zero-value BulkOrder.
	ErrBulkOrderIsNotConstructed = errors.New("BulkOrder must be created via NewBulkOrder constructor")
	// ErrAlreadyJoined is returned when the same individual order joins twice.
	ErrAlreadyJoined = errors.New("order already joined this bulk order")
	// ErrNotJoinable is returned when the bulk order has left Pending.
	ErrNotJoinable = errors.New("bulk order no longer accepts participants")
	// ErrAlreadyAssigned is the order package sentinel, shared so callers
	// test one error for both kinds of delivery unit.
	ErrAlreadyAssigned = order.ErrAlreadyAssigned
)

// NaturalKey builds "<apartmentId>:YYYY-MM-DD". day must already be in the
// marketplace timezone.
func NaturalKey(apartmentID kernel.UUID, day time.Time) string {
	return apartmentID.String() + ":" + day.Format(DateLayout)
}

// BulkOrder is the aggregate root of a per-apartment, per-day consolidated order.
type BulkOrder struct {
	key                   string
	apartmentID           kernel.UUID
	date                  string
	status                Status
	participants          []Participant
	deliveryFeeDiscount   decimal.Decimal
	agentID               *kernel.UUID
	deliverySlot          string
	estimatedDeliveryDate *time.Time
	actualDeliveryDate    *time.Time
	history               []kernel.HistoryEntry
	createdAt             time.Time
	version               int64
	events                []kernel.Event
	guard                 guard.ConstructorGuard
}

// NewBulkOrder opens the day's bulk order for an apartment inside window.
// The delivery slot is the window label and the estimated delivery is the
// window close on that date plus leadTime.
func NewBulkOrder(
	apartmentID kernel.UUID,
	now time.Time,
	window apartment.Window,
	deliveryFeeDiscount decimal.Decimal,
	leadTime time.Duration,
) (*BulkOrder, error) {
	if err := apartmentID.Validate(); err != nil {
		return nil, err
	}
	if deliveryFeeDiscount.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("deliveryFeeDiscount", fmt.Errorf("%s is negative", deliveryFeeDiscount))
	}

	eta := window.EndOn(now).Add(leadTime)
	b := &BulkOrder{
		key:                   NaturalKey(apartmentID, now),
		apartmentID:           apartmentID,
		date:                  now.Format(DateLayout),
		status:                StatusPending,
		deliveryFeeDiscount:   deliveryFeeDiscount,
		deliverySlot:          window.Label(),
		estimatedDeliveryDate: &eta,
		createdAt:             now,
		guard:                 guard.NewConstructorGuard(),
	}
	b.history = append(b.history, kernel.HistoryEntry{Label: StatusPending.String(), At: now})
	return b, nil
}

// RestoreState carries the persisted fields of a BulkOrder.
type RestoreState struct {
	Key                   string
	ApartmentID           kernel.UUID
	Date                  string
	Status                Status
	Participants          []Participant
	DeliveryFeeDiscount   decimal.Decimal
	AgentID               *kernel.UUID
	DeliverySlot          string
	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time
	History               []kernel.HistoryEntry
	CreatedAt             time.Time
	Version               int64
}

// RestoreBulkOrder rehydrates a BulkOrder read from storage.
func RestoreBulkOrder(s RestoreState) (*BulkOrder, error) {
	if err := errors.Join(s.ApartmentID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	if s.Key != s.ApartmentID.String()+":"+s.Date {
		return nil, errs.NewValueIsInvalidErrorWithCause("key", fmt.Errorf("%q does not match apartment and date", s.Key))
	}

	return &BulkOrder{
		key:                   s.Key,
		apartmentID:           s.ApartmentID,
		date:                  s.Date,
		status:                s.Status,
		participants:          slices.Clone(s.Participants),
		deliveryFeeDiscount:   s.DeliveryFeeDiscount,
		agentID:               s.AgentID,
		deliverySlot:          s.DeliverySlot,
		estimatedDeliveryDate: s.EstimatedDeliveryDate,
		actualDeliveryDate:    s.ActualDeliveryDate,
		history:               slices.Clone(s.History),
		createdAt:             s.CreatedAt,
		version:               s.Version,
		guard:                 guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the bulk order was built by NewBulkOrder or RestoreBulkOrder.
func (b *BulkOrder) Validate() error {
	if b == nil {
		return ErrBulkOrderIsNotConstructed
	}
	return b.guard.Validate(ErrBulkOrderIsNotConstructed)
}

func (b *BulkOrder) Key() string                          { return b.key }
func (b *BulkOrder) ApartmentID() kernel.UUID             { return b.apartmentID }
func (b *BulkOrder) Date() string                         { return b.date }
func (b *BulkOrder) Status() Status                       { return b.status }
func (b *BulkOrder) DeliveryFeeDiscount() decimal.Decimal { return b.deliveryFeeDiscount }
func (b *BulkOrder) AgentID() *kernel.UUID                { return b.agentID }
func (b *BulkOrder) DeliverySlot() string                 { return b.deliverySlot }
func (b *BulkOrder) EstimatedDeliveryDate() *time.Time    { return b.estimatedDeliveryDate }
func (b *BulkOrder) ActualDeliveryDate() *time.Time       { return b.actualDeliveryDate }
func (b *BulkOrder) CreatedAt() time.Time                 { return b.createdAt }
func (b *BulkOrder) Version() int64                       { return b.version }
func (b *BulkOrder) Participants() []Participant          { return slices.Clone(b.participants) }
func (b *BulkOrder) History() []kernel.HistoryEntry       { return slices.Clone(b.history) }

// TotalFamilies is the number of participants.
func (b *BulkOrder) TotalFamilies() int {
	return len(b.participants)
}

// TotalAmount is the sum of the participants' amounts.
func (b *BulkOrder) TotalAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range b.participants {
		sum = sum.Add(p.totalAmount)
	}
	return sum
}

// TotalItems is the sum of item quantities across all participants.
func (b *BulkOrder) TotalItems() int {
	n := 0
	for _, p := range b.participants {
		n += order.TotalQuantity(p.items)
	}
	return n
}

// ActiveAgentID returns the bound agent while the delivery is still open.
func (b *BulkOrder) ActiveAgentID() *kernel.UUID {
	if b.agentID == nil || b.status.IsTerminal() {
		return nil
	}
	id := *b.agentID
	return &id
}

// Join appends a participant. Only Pending bulk orders accept participants
// and each individual order may join once.
func (b *BulkOrder) Join(p Participant, now time.Time) error {
	if b.status != StatusPending {
		return fmt.Errorf("%w: bulk order %s is %s", ErrNotJoinable, b.key, b.status)
	}
	if slices.ContainsFunc(b.participants, func(existing Participant) bool {
		return existing.individualOrderID.IsEqual(p.individualOrderID)
	}) {
		return fmt.Errorf("%w: order %s", ErrAlreadyJoined, p.individualOrderID)
	}

	b.participants = append(b.participants, p)
	b.events = append(b.events, kernel.NewEvent(EventJoined, aggregateType, b.key, now, map[string]any{
		"customer_id":         p.customerID.String(),
		"individual_order_id": p.individualOrderID.String(),
		"total_families":      b.TotalFamilies(),
		"total_amount":        b.TotalAmount().StringFixed(2),
		"total_items":         b.TotalItems(),
	}))
	return nil
}

// AdvanceStatus applies a lifecycle transition. Reaching Delivered stamps the
// actual delivery date. The caller releases ActiveAgentID, read before the
// call, when the target is Delivered or Cancelled.
func (b *BulkOrder) AdvanceStatus(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !b.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError("bulk order status", b.status, target)
	}

	from := b.status
	b.status = target
	if target == StatusDelivered {
		at := now
		b.actualDeliveryDate = &at
	}
	b.history = append(b.history, kernel.HistoryEntry{Label: target.String(), At: now})
	b.events = append(b.events, kernel.NewEvent(EventStatusChanged, aggregateType, b.key, now,
		map[string]any{"from": from.String(), "to": target.String()}))
	return nil
}

// AssignAgent binds the whole bulk order to one agent as a single delivery unit.
func (b *BulkOrder) AssignAgent(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if b.agentID != nil {
		return fmt.Errorf("%w: bulk order %s is bound to agent %s", ErrAlreadyAssigned, b.key, b.agentID)
	}
	if b.status.IsTerminal() || b.status == StatusPending {
		return fmt.Errorf("%w: bulk order is %s", errs.NewInvalidTransitionError("bulk order agent", b.status, b.status), b.status)
	}

	b.agentID = &agentID
	b.history = append(b.history, kernel.HistoryEntry{Label: "agent:Assigned", At: now})
	b.events = append(b.events, kernel.NewEvent(EventAgentAssigned, aggregateType, b.key, now,
		map[string]any{"agent_id": agentID.String()}))
	return nil
}

// PullEvents implements kernel.EventSource.
func (b *BulkOrder) PullEvents() []kernel.Event {
	events := b.events
	b.events = nil
	return events
}
