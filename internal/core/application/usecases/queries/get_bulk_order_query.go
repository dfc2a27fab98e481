package queries

import (
	"errors"
	"strings"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetBulkOrderQueryIsNotConstructed = errors.New(
	"GetBulkOrderQuery must be created via NewGetBulkOrderQuery constructor",
)

// GetBulkOrderQuery fetches one bulk order by its natural key together with
// the apartment's ordering window as of now.
type GetBulkOrderQuery struct {
	key   string
	guard guard.ConstructorGuard
}

func NewGetBulkOrderQuery(key string) (GetBulkOrderQuery, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return GetBulkOrderQuery{}, errs.NewValueIsRequiredError("key")
	}
	return GetBulkOrderQuery{key: key, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBulkOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetBulkOrderQueryIsNotConstructed)
}

func (q GetBulkOrderQuery) Key() string { return q.key }

// GetBulkOrderQueryResponse is the bulk order read model. Window is nil and
// TimeRemaining zero when no ordering window is open.
type GetBulkOrderQueryResponse struct {
	Key                   string
	ApartmentID           kernel.UUID
	Date                  string
	Status                string
	TotalFamilies         int
	TotalItems            int
	TotalAmount           decimal.Decimal
	DeliveryFeeDiscount   decimal.Decimal
	AgentID               *kernel.UUID
	DeliverySlot          string
	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time
	Window                *OrderingWindowView
	TimeRemaining         time.Duration
}

// OrderingWindowView describes the currently open ordering window.
type OrderingWindowView struct {
	Label string
	Start string
	End   string
}
