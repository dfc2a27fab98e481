// Package ports defines the contracts between the fulfillment core and its
// adapters: repositories, the unit of work and the event publisher.
//
// Repositories use optimistic concurrency. Update compares the version the
// aggregate was read with and fails with errs.ConcurrencyConflictError when
// another writer got there first; Add fails the same way when the key is
// already taken. Callers retry the whole read-modify-write, never only the
// write.
package ports

import (
	"context"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its first history entries.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a changed order and appends new history entries.
	// Returns errs.ConcurrencyConflictError when the stored version moved on.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its history.
	// Returns errs.ObjectNotFoundError when the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindBatchForAgent returns the batch id of another order bound to the
	// agent whose delivery is Assigned or PickedUp, or nil when there is none.
	FindBatchForAgent(ctx context.Context, agentID kernel.UUID) (*kernel.UUID, error)

	// GetByAgent returns the orders bound to the agent whose delivery is
	// still active, oldest first.
	GetByAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error)

	// GetReadyUnassigned returns up to limit orders in ReadyForPickup with
	// no agent, oldest first.
	GetReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error)
}
