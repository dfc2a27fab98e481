package agent

import (
	"fmt"
	"strings"

	"kirana/internal/pkg/errs"
)

// Status is the availability of an agent.
type Status string

const (
	// Available agents accept new work and have no active deliveries.
	Available Status = "available"
	// Busy agents have at least one active delivery and may still accept more
	// until the cap is reached.
	Busy Status = "busy"
	// Offline agents are never selected.
	Offline Status = "offline"
)

// ParseStatus converts a persisted or client-supplied value into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

// Validate reports whether s is one of the known statuses.
func (s Status) Validate() error {
	switch s {
	case Available, Busy, Offline:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("agent status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}
