package order

import (
	"fmt"

	"kirana/internal/pkg/errs"
)

// DeliveryStatus is the agent-side sub-state of an order.
type DeliveryStatus int

const (
	// DeliveryUnknown is the zero value and is never valid.
	DeliveryUnknown DeliveryStatus = iota
	// DeliveryPending means no agent is bound.
	DeliveryPending
	// DeliveryAssigned means an agent is bound and on the way to the store.
	DeliveryAssigned
	// DeliveryPickedUp means the agent collected the order.
	DeliveryPickedUp
	// DeliveryOutForDelivery means the agent is heading to the customer.
	DeliveryOutForDelivery
	// DeliveryDelivered is terminal and frees the agent's slot.
	DeliveryDelivered
)

var deliveryStatusNames = map[DeliveryStatus]string{
	DeliveryPending:        "Pending",
	DeliveryAssigned:       "Assigned",
	DeliveryPickedUp:       "PickedUp",
	DeliveryOutForDelivery: "OutForDelivery",
	DeliveryDelivered:      "Delivered",
}

// ParseDeliveryStatus converts the persisted name back into a DeliveryStatus.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	for st, name := range deliveryStatusNames {
		if name == s {
			return st, nil
		}
	}
	return DeliveryUnknown, errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%q is not a valid delivery status", s))
}

// Validate reports whether s is a known delivery status.
func (s DeliveryStatus) Validate() error {
	if _, ok := deliveryStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	if name, ok := deliveryStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsActive reports whether an agent slot is held in this state.
func (s DeliveryStatus) IsActive() bool {
	return s == DeliveryAssigned || s == DeliveryPickedUp || s == DeliveryOutForDelivery
}

// CanTransitionTo allows exactly one forward step.
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	return s != DeliveryUnknown && s != DeliveryDelivered && target == s+1
}
