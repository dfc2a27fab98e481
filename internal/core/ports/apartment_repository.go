package ports

import (
	"context"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
)

// ApartmentRepository loads apartments with their ordering windows.
type ApartmentRepository interface {
	// Add seeds an apartment and its windows.
	Add(ctx context.Context, aggregate *apartment.Apartment) error

	// Get loads an apartment with its windows in configured order.
	Get(ctx context.Context, id kernel.UUID) (*apartment.Apartment, error)
}
