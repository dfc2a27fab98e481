package ports

import (
	"context"

	"kirana/internal/core/domain/model/kernel"
)

// EventPublisher hands committed domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.Event) error
}
