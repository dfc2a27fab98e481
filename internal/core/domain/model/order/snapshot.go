package order

import (
	"strings"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
)

// ShopSnapshot copies the store details at order creation. Later changes to
// the store never reach existing orders.
type ShopSnapshot struct {
	name     string
	address  string
	location *kernel.Location
}

// NewShopSnapshot builds a snapshot. location may be nil when the store never
// set coordinates; assignment then falls back to the distance penalty.
func NewShopSnapshot(name, address string, location *kernel.Location) (ShopSnapshot, error) {
	if strings.TrimSpace(name) == "" {
		return ShopSnapshot{}, errs.NewValueIsRequiredError("shop name")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return ShopSnapshot{}, err
		}
	}
	return ShopSnapshot{
		name:     strings.TrimSpace(name),
		address:  strings.TrimSpace(address),
		location: location,
	}, nil
}

func (s ShopSnapshot) Name() string               { return s.name }
func (s ShopSnapshot) Address() string            { return s.address }
func (s ShopSnapshot) Location() *kernel.Location { return s.location }
