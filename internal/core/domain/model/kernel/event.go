package kernel

import "time"

// Event is a fact recorded by an aggregate while it changes state. Events are
// collected by the unit of work and handed to the event publisher only after
// the transaction commits.
type Event struct {
	Name          string
	AggregateType string
	AggregateID   string
	OccurredAt    time.Time
	Data          map[string]any
}

// NewEvent builds an Event.
func NewEvent(name, aggregateType, aggregateID string, at time.Time, data map[string]any) Event {
	return Event{
		Name:          name,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    at,
		Data:          data,
	}
}

// EventSource is implemented by aggregates that record events.
type EventSource interface {
	// PullEvents returns the recorded events and clears them.
	PullEvents() []Event
}
