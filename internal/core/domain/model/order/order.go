package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

// Domain events recorded by Order.
const (
	EventStatusChanged         = "order.status_changed"
	EventDeliveryStatusChanged = "order.delivery_status_changed"
	EventAgentAssigned         = "order.agent_assigned"
	EventAgentUnassigned       = "order.agent_unassigned"

	aggregateType = "order"
	// deliveryLabelPrefix distinguishes delivery entries from shop entries in
	// the shared history.
	deliveryLabelPrefix = "delivery:"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrAlreadyAssigned is returned when binding an order that already has an agent.
	ErrAlreadyAssigned = errors.New("order already has a delivery agent")
	// ErrCodConfirmationRequired is returned when completing a cash-on-delivery
	// order without the agent confirming the cash was collected.
	ErrCodConfirmationRequired = errors.New("cash collection must be confirmed before completing a cash-on-delivery order")
	// ErrNoItems is returned when an order has no lines.
	ErrNoItems = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root for a customer's individual order.
//
// Invariants:
//   - the id, customer, store, items and snapshots never change after creation
//   - status and deliveryStatus move only along their machines (see package docs)
//   - deliveryStatus passes Assigned only once status is at least ReadyForPickup
//   - a bound agent is present exactly when deliveryStatus is not Pending,
//     except after cancellation which unbinds
//   - history only grows, one entry per applied transition
type Order struct {
	id              kernel.UUID
	customerID      kernel.UUID
	storeID         kernel.UUID
	status          Status
	deliveryStatus  DeliveryStatus
	agentID         *kernel.UUID
	batchID         *kernel.UUID
	paymentMethod   PaymentMethod
	codConfirmed    bool
	items           []Item
	totalAmount     decimal.Decimal
	shop            ShopSnapshot
	customerAddress string
	history         []kernel.HistoryEntry
	createdAt       time.Time
	version         int64
	events          []kernel.Event
	guard           guard.ConstructorGuard
}

// NewOrder accepts a placed order. It starts in New with delivery Pending and
// one history entry.
//
// Example:
//
//	item, _ := order.NewItem("sku-1", "Atta 5kg", 1, decimal.RequireFromString("245.00"))
//	shop, _ := order.NewShopSnapshot("Sharma Kirana", "12 MG Road", &shopLoc)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, storeID, order.PaymentCOD,
//	    []order.Item{item}, decimal.RequireFromString("245.00"), shop, "Flat 4B", now)
func NewOrder(
	id, customerID, storeID kernel.UUID,
	paymentMethod PaymentMethod,
	items []Item,
	totalAmount decimal.Decimal,
	shop ShopSnapshot,
	customerAddress string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:          StatusNew,
		deliveryStatus:  DeliveryPending,
		customerAddress: strings.TrimSpace(customerAddress),
		shop:            shop,
		createdAt:       now,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParty("customerID", &o.customerID, customerID),
		o.setParty("storeID", &o.storeID, storeID),
		o.setPaymentMethod(paymentMethod),
		o.setItems(items),
		o.setTotalAmount(totalAmount),
	); err != nil {
		return nil, err
	}

	o.appendHistory(StatusNew.String(), now)
	return o, nil
}

// RestoreState carries the persisted fields of an Order.
type RestoreState struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	StoreID         kernel.UUID
	Status          Status
	DeliveryStatus  DeliveryStatus
	AgentID         *kernel.UUID
	BatchID         *kernel.UUID
	PaymentMethod   PaymentMethod
	CodConfirmed    bool
	Items           []Item
	TotalAmount     decimal.Decimal
	Shop            ShopSnapshot
	CustomerAddress string
	History         []kernel.HistoryEntry
	CreatedAt       time.Time
	Version         int64
}

// RestoreOrder rehydrates an Order read from storage.
func RestoreOrder(s RestoreState) (*Order, error) {
	o := &Order{
		agentID:         s.AgentID,
		batchID:         s.BatchID,
		codConfirmed:    s.CodConfirmed,
		shop:            s.Shop,
		customerAddress: s.CustomerAddress,
		history:         s.History,
		createdAt:       s.CreatedAt,
		version:         s.Version,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setParty("customerID", &o.customerID, s.CustomerID),
		o.setParty("storeID", &o.storeID, s.StoreID),
		o.setPaymentMethod(s.PaymentMethod),
		o.setItems(s.Items),
		o.setTotalAmount(s.TotalAmount),
		s.Status.Validate(),
		s.DeliveryStatus.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status
	o.deliveryStatus = s.DeliveryStatus

	return o, nil
}

// Validate checks the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                { return o.id }
func (o *Order) CustomerID() kernel.UUID        { return o.customerID }
func (o *Order) StoreID() kernel.UUID           { return o.storeID }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }
func (o *Order) AgentID() *kernel.UUID          { return o.agentID }
func (o *Order) BatchID() *kernel.UUID          { return o.batchID }
func (o *Order) PaymentMethod() PaymentMethod   { return o.paymentMethod }
func (o *Order) CodConfirmed() bool             { return o.codConfirmed }
func (o *Order) TotalAmount() decimal.Decimal   { return o.totalAmount }
func (o *Order) Shop() ShopSnapshot             { return o.shop }
func (o *Order) CustomerAddress() string        { return o.customerAddress }
func (o *Order) CreatedAt() time.Time           { return o.createdAt }
func (o *Order) Version() int64                 { return o.version }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// History returns a copy of the status history in application order.
func (o *Order) History() []kernel.HistoryEntry {
	return append([]kernel.HistoryEntry(nil), o.history...)
}

// ActiveAgentID returns the bound agent while it still holds a delivery slot
// for this order, and nil otherwise.
func (o *Order) ActiveAgentID() *kernel.UUID {
	if o.agentID == nil || !o.deliveryStatus.IsActive() {
		return nil
	}
	id := *o.agentID
	return &id
}

// AdvanceStatus applies a shop-side transition. Cancelling an order with an
// active delivery unbinds the agent; the caller releases the agent's slot
// using the id returned by ActiveAgentID before the call.
func (o *Order) AdvanceStatus(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError("order status", o.status, target)
	}

	if target == StatusCancelled && o.ActiveAgentID() != nil {
		o.unbind(now)
	}
	o.setStatus(target, now)
	return nil
}

// AssignAgent binds the order to an agent and places it into batchID.
func (o *Order) AssignAgent(agentID, batchID kernel.UUID, now time.Time) error {
	if err := errors.Join(agentID.Validate(), batchID.Validate()); err != nil {
		return err
	}
	if o.agentID != nil {
		return fmt.Errorf("%w: order %s is bound to agent %s", ErrAlreadyAssigned, o.id, o.agentID)
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError("delivery status", o.deliveryStatus, DeliveryAssigned)
	}
	if !o.deliveryStatus.CanTransitionTo(DeliveryAssigned) {
		return errs.NewInvalidTransitionError("delivery status", o.deliveryStatus, DeliveryAssigned)
	}

	o.agentID = &agentID
	o.batchID = &batchID
	o.setDeliveryStatus(DeliveryAssigned, now)
	o.events = append(o.events, kernel.NewEvent(EventAgentAssigned, aggregateType, o.id.String(), now,
		map[string]any{"agent_id": agentID.String(), "batch_id": batchID.String()}))
	return nil
}

// Reassign moves the order to another agent. It is allowed until the
// delivery completes. The previously bound agent, if any, is returned so the
// caller can release it before binding newAgentID.
func (o *Order) Reassign(newAgentID, batchID kernel.UUID, now time.Time) (*kernel.UUID, error) {
	if err := errors.Join(newAgentID.Validate(), batchID.Validate()); err != nil {
		return nil, err
	}
	if o.status.IsTerminal() || o.deliveryStatus == DeliveryDelivered {
		return nil, errs.NewInvalidTransitionError("delivery status", o.deliveryStatus, DeliveryAssigned)
	}
	if o.agentID != nil && o.agentID.IsEqual(newAgentID) {
		return nil, fmt.Errorf("%w: order %s is bound to agent %s", ErrAlreadyAssigned, o.id, newAgentID)
	}

	previous := o.agentID
	if previous != nil {
		o.events = append(o.events, kernel.NewEvent(EventAgentUnassigned, aggregateType, o.id.String(), now,
			map[string]any{"agent_id": previous.String()}))
	}

	o.agentID = &newAgentID
	o.batchID = &batchID
	if o.deliveryStatus == DeliveryPending {
		o.setDeliveryStatus(DeliveryAssigned, now)
	} else {
		o.appendHistory(deliveryLabelPrefix+"Reassigned", now)
	}
	o.events = append(o.events, kernel.NewEvent(EventAgentAssigned, aggregateType, o.id.String(), now,
		map[string]any{"agent_id": newAgentID.String(), "batch_id": batchID.String()}))

	return previous, nil
}

// AdvanceDelivery applies an agent-side transition. codConfirmed is the
// agent's confirmation that cash was collected. It only counts on the
// Delivered request of a cash-on-delivery order.
//
// When the delivery reaches OutForDelivery or Delivered and the shop status
// lags behind, the shop status is stepped forward to match, each step with
// its own history entry.
func (o *Order) AdvanceDelivery(target DeliveryStatus, codConfirmed bool, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if o.status == StatusCancelled || target == DeliveryAssigned || !o.deliveryStatus.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError("delivery status", o.deliveryStatus, target)
	}
	if !o.status.IsAtLeast(StatusReadyForPickup) {
		return fmt.Errorf("%w: order is %s", errs.NewInvalidTransitionError("delivery status", o.deliveryStatus, target), o.status)
	}
	cod := target == DeliveryDelivered && o.paymentMethod.IsCashOnDelivery()
	if cod && !codConfirmed {
		return ErrCodConfirmationRequired
	}

	if cod {
		o.codConfirmed = true
	}
	o.setDeliveryStatus(target, now)

	switch target {
	case DeliveryOutForDelivery:
		o.catchUpStatus(StatusOutForDelivery, now)
	case DeliveryDelivered:
		o.catchUpStatus(StatusDelivered, now)
	}
	return nil
}

// PullEvents implements kernel.EventSource.
func (o *Order) PullEvents() []kernel.Event {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) catchUpStatus(target Status, now time.Time) {
	for !o.status.IsTerminal() && o.status < target {
		next, _ := o.status.Next()
		o.setStatus(next, now)
	}
}

func (o *Order) unbind(now time.Time) {
	o.events = append(o.events, kernel.NewEvent(EventAgentUnassigned, aggregateType, o.id.String(), now,
		map[string]any{"agent_id": o.agentID.String()}))
	o.agentID = nil
	o.batchID = nil
}

func (o *Order) setStatus(target Status, now time.Time) {
	from := o.status
	o.status = target
	o.appendHistory(target.String(), now)
	o.events = append(o.events, kernel.NewEvent(EventStatusChanged, aggregateType, o.id.String(), now,
		map[string]any{"from": from.String(), "to": target.String()}))
}

func (o *Order) setDeliveryStatus(target DeliveryStatus, now time.Time) {
	from := o.deliveryStatus
	o.deliveryStatus = target
	o.appendHistory(deliveryLabelPrefix+target.String(), now)
	o.events = append(o.events, kernel.NewEvent(EventDeliveryStatusChanged, aggregateType, o.id.String(), now,
		map[string]any{"from": from.String(), "to": target.String()}))
}

func (o *Order) appendHistory(label string, now time.Time) {
	o.history = append(o.history, kernel.HistoryEntry{Label: label, At: now})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParty(name string, dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}

func (o *Order) setPaymentMethod(pm PaymentMethod) error {
	if err := pm.Validate(); err != nil {
		return err
	}
	o.paymentMethod = pm
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setTotalAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount", fmt.Errorf("%s is negative", amount))
	}
	o.totalAmount = amount
	return nil
}
