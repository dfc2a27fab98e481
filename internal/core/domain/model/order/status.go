package order

import (
	"fmt"

	"kirana/internal/pkg/errs"
)

// Status is the shop-side lifecycle state of an order.
type Status int

const (
	// StatusUnknown is the zero value and is never valid.
	StatusUnknown Status = iota
	// StatusNew is the state an order is created in.
	StatusNew
	// StatusAccepted means the store accepted the order.
	StatusAccepted
	// StatusPreparing means the store is packing the order.
	StatusPreparing
	// StatusReadyForPickup means the order waits for an agent at the store.
	// Entering it triggers automatic agent assignment.
	StatusReadyForPickup
	// StatusOutForDelivery means the order left the store.
	StatusOutForDelivery
	// StatusDelivered is terminal.
	StatusDelivered
	// StatusCancelled is terminal and reachable from any non-terminal state.
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusNew:            "New",
	StatusAccepted:       "Accepted",
	StatusPreparing:      "Preparing",
	StatusReadyForPickup: "ReadyForPickup",
	StatusOutForDelivery: "OutForDelivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

// ParseStatus converts the persisted name back into a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate reports whether s is a known status.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no further shop transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsAtLeast reports whether s has reached other along the forward path.
// Cancelled is never at least anything.
func (s Status) IsAtLeast(other Status) bool {
	if s == StatusCancelled {
		return false
	}
	return s >= other
}

// Next returns the only forward successor of s.
func (s Status) Next() (Status, bool) {
	if s == StatusUnknown || s.IsTerminal() {
		return StatusUnknown, false
	}
	return s + 1, true
}

// CanTransitionTo allows exactly one forward step or cancellation from a
// non-terminal state. Backward moves and skips are rejected.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() || s == StatusUnknown {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	next, ok := s.Next()
	return ok && next == target
}
