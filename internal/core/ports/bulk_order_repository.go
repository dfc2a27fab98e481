package ports

import (
	"context"

	"kirana/internal/core/domain/model/bulkorder"
)

// BulkOrderRepository defines the persistence contract for bulk orders,
// keyed by their natural key.
type BulkOrderRepository interface {
	// Add creates the day's bulk order. A concurrent creator of the same key
	// makes this fail with errs.ConcurrencyConflictError.
	Add(ctx context.Context, aggregate *bulkorder.BulkOrder) error

	// Update persists new participants, history and bindings guarded by the
	// version.
	Update(ctx context.Context, aggregate *bulkorder.BulkOrder) error

	// Get loads a bulk order with participants and history.
	Get(ctx context.Context, key string) (*bulkorder.BulkOrder, error)
}
