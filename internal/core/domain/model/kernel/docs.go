// Package kernel provides the shared value objects of the fulfillment domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Location: a WGS84 latitude/longitude pair with great-circle distance
//   - TimeOfDay: a wall-clock time within a single day, used by ordering windows
//   - Clock: the time source injected into use cases
//   - Event: a domain event recorded by aggregates and published after commit
//   - HistoryEntry: one line of an append-only status history
//
// All value objects are immutable; their zero values are invalid and fail Validate.
package kernel
