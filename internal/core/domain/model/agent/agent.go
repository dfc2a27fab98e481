package agent

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

// MaxConcurrentDeliveries caps the number of delivery units bound to one agent.
const MaxConcurrentDeliveries = 5

const (
	// EventAvailabilityChanged is recorded whenever the agent status changes.
	EventAvailabilityChanged = "agent.availability_changed"

	aggregateType = "agent"
)

var (
	// ErrAgentIsNotConstructed is returned when using a zero-value Agent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent constructor")
	// ErrAgentNotEligible is returned by Bind when the agent is offline or at capacity.
	ErrAgentNotEligible = errors.New("agent is not eligible for a new delivery")
	// ErrNameIsRequired is returned when an agent has no display name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Agent is the DeliveryAgent aggregate root.
//
// Invariants:
//   - 0 <= activeDeliveries <= MaxConcurrentDeliveries
//   - Bind either increments the counter and marks the agent busy, or fails
//     without changing anything
//   - Release never drives the counter below zero and marks the agent
//     available once it reaches zero
//   - SetAvailability never touches the counter
//
// Example:
//
//	a, _ := agent.NewAgent(userID, "Ravi")
//	if err := a.Bind(now); err != nil {
//	    // offline or at capacity
//	}
type Agent struct {
	id               kernel.UUID
	name             string
	status           Status
	activeDeliveries int
	location         *kernel.Location
	locationAt       *time.Time
	version          int64
	events           []kernel.Event
	guard            guard.ConstructorGuard
}

// NewAgent registers the delivery capability for the actor identified by id.
// New agents start offline with no active deliveries and an unknown location.
func NewAgent(id kernel.UUID, name string) (*Agent, error) {
	a := &Agent{
		status: Offline,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAgent rehydrates an Agent from storage. The version is the value
// the row carried when it was read; repositories compare against it on update.
func RestoreAgent(
	id kernel.UUID,
	name string,
	status Status,
	activeDeliveries int,
	location *kernel.Location,
	locationAt *time.Time,
	version int64,
) (*Agent, error) {
	a := &Agent{
		location:   location,
		locationAt: locationAt,
		version:    version,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setStatus(status),
		a.setActiveDeliveries(activeDeliveries),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate checks the agent was built by NewAgent or RestoreAgent.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// ID returns the agent id, which equals the owning user's id.
func (a *Agent) ID() kernel.UUID { return a.id }

// Name returns the display name.
func (a *Agent) Name() string { return a.name }

// Status returns the availability status.
func (a *Agent) Status() Status { return a.status }

// ActiveDeliveries returns the number of delivery units currently bound.
func (a *Agent) ActiveDeliveries() int { return a.activeDeliveries }

// Location returns the last reported position, or nil when unknown.
func (a *Agent) Location() *kernel.Location { return a.location }

// LocationUpdatedAt returns when Location was last reported, or nil.
func (a *Agent) LocationUpdatedAt() *time.Time { return a.locationAt }

// Version returns the optimistic concurrency version read from storage.
func (a *Agent) Version() int64 { return a.version }

// IsEligible reports whether the agent may receive a new delivery unit.
func (a *Agent) IsEligible() bool {
	return (a.status == Available || a.status == Busy) && a.activeDeliveries < MaxConcurrentDeliveries
}

// Bind reserves one delivery slot.
func (a *Agent) Bind(now time.Time) error {
	if !a.IsEligible() {
		return fmt.Errorf("%w: agent %s is %s with %d active deliveries",
			ErrAgentNotEligible, a.id, a.status, a.activeDeliveries)
	}

	a.activeDeliveries++
	a.changeStatus(Busy, now)
	return nil
}

// Release frees one delivery slot. Releasing an agent with no active
// deliveries is a no-op on the counter.
func (a *Agent) Release(now time.Time) {
	if a.activeDeliveries > 0 {
		a.activeDeliveries--
	}
	if a.activeDeliveries == 0 && a.status == Busy {
		a.changeStatus(Available, now)
	}
}

// SetAvailability is the agent-driven status toggle.
func (a *Agent) SetAvailability(status Status, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.changeStatus(status, now)
	return nil
}

// SetLocation records a location ping.
func (a *Agent) SetLocation(location kernel.Location, now time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	a.location = &location
	a.locationAt = &now
	return nil
}

// PullEvents implements kernel.EventSource.
func (a *Agent) PullEvents() []kernel.Event {
	events := a.events
	a.events = nil
	return events
}

func (a *Agent) changeStatus(status Status, now time.Time) {
	if a.status == status {
		return
	}
	from := a.status
	a.status = status
	a.events = append(a.events, kernel.NewEvent(EventAvailabilityChanged, aggregateType, a.id.String(), now,
		map[string]any{
			"from":              from.String(),
			"to":                status.String(),
			"active_deliveries": a.activeDeliveries,
		}))
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	a.name = name
	return nil
}

func (a *Agent) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}

func (a *Agent) setActiveDeliveries(n int) error {
	if n < 0 || n > MaxConcurrentDeliveries {
		return errs.NewValueIsOutOfRangeError("activeDeliveries", n, 0, MaxConcurrentDeliveries)
	}
	a.activeDeliveries = n
	return nil
}
