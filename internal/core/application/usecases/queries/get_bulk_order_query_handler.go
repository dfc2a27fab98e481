package queries

import (
	"context"
	"errors"
	"time"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApartmentReader loads an apartment with its windows.
type ApartmentReader interface {
	Get(ctx context.Context, id kernel.UUID) (*apartment.Apartment, error)
}

// GetBulkOrderQueryHandler aggregates totals in SQL and asks WindowResolver
// whether the apartment's ordering window is open now.
type GetBulkOrderQueryHandler struct {
	db         *gorm.DB
	apartments ApartmentReader
	resolver   services.WindowResolver
	clock      kernel.Clock
}

func NewGetBulkOrderQueryHandler(db *gorm.DB, apartments ApartmentReader, clock kernel.Clock) GetBulkOrderQueryHandler {
	return GetBulkOrderQueryHandler{
		db:         db,
		apartments: apartments,
		resolver:   services.NewWindowResolver(),
		clock:      clock,
	}
}

type bulkOrderRow struct {
	Key                   string
	ApartmentID           uuid.UUID
	Date                  string
	Status                string
	DeliveryFeeDiscount   decimal.Decimal
	AgentID               *uuid.UUID
	DeliverySlot          string
	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time
	TotalFamilies         int
	TotalItems            int
	TotalAmount           decimal.Decimal
}

func (r bulkOrderRow) toResponse() (GetBulkOrderQueryResponse, error) {
	aptID, err := kernel.UUIDFromBytes(r.ApartmentID[:])
	if err != nil {
		return GetBulkOrderQueryResponse{}, err
	}
	resp := GetBulkOrderQueryResponse{
		Key:                   r.Key,
		ApartmentID:           aptID,
		Date:                  r.Date,
		Status:                r.Status,
		TotalFamilies:         r.TotalFamilies,
		TotalItems:            r.TotalItems,
		TotalAmount:           r.TotalAmount,
		DeliveryFeeDiscount:   r.DeliveryFeeDiscount,
		DeliverySlot:          r.DeliverySlot,
		EstimatedDeliveryDate: r.EstimatedDeliveryDate,
		ActualDeliveryDate:    r.ActualDeliveryDate,
	}
	if r.AgentID != nil {
		id, err := kernel.UUIDFromBytes(r.AgentID[:])
		if err != nil {
			return GetBulkOrderQueryResponse{}, err
		}
		resp.AgentID = &id
	}
	return resp, nil
}

func (h GetBulkOrderQueryHandler) Handle(ctx context.Context, query GetBulkOrderQuery) (GetBulkOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBulkOrderQueryResponse{}, err
	}

	var row bulkOrderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			b.key,
			b.apartment_id,
			b.date,
			b.status,
			b.delivery_fee_discount,
			b.agent_id,
			b.delivery_slot,
			b.estimated_delivery_date,
			b.actual_delivery_date,
			(SELECT COUNT(*) FROM bulk_order_participants p WHERE p.bulk_order_key = b.key) AS total_families,
			(SELECT COALESCE(SUM((item->>'quantity')::int), 0)
				FROM bulk_order_participants p, jsonb_array_elements(p.items) AS item
				WHERE p.bulk_order_key = b.key) AS total_items,
			(SELECT COALESCE(SUM(p.total_amount), 0)
				FROM bulk_order_participants p WHERE p.bulk_order_key = b.key) AS total_amount
		FROM bulk_orders b
		WHERE b.key = ?
	`, query.Key()).Scan(&row)
	if result.Error != nil {
		return GetBulkOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetBulkOrderQueryResponse{}, errs.NewObjectNotFoundError("bulk order", query.Key())
	}

	resp, err := row.toResponse()
	if err != nil {
		return GetBulkOrderQueryResponse{}, err
	}

	apt, err := h.apartments.Get(ctx, resp.ApartmentID)
	if err != nil {
		return GetBulkOrderQueryResponse{}, err
	}
	resp.Window, resp.TimeRemaining, err = h.openWindow(apt, resp.Date, h.clock())
	if err != nil {
		return GetBulkOrderQueryResponse{}, err
	}

	return resp, nil
}

// openWindow reports the window open now for a bulk order of the given date.
// Only today's bulk order can have one.
func (h GetBulkOrderQueryHandler) openWindow(
	apt *apartment.Apartment,
	date string,
	now time.Time,
) (*OrderingWindowView, time.Duration, error) {
	if date != now.Format(bulkorder.DateLayout) {
		return nil, 0, nil
	}
	w, err := h.resolver.Resolve(apt, now)
	switch {
	case err == nil:
		view := &OrderingWindowView{Label: w.Label(), Start: w.Start().String(), End: w.End().String()}
		return view, h.resolver.TimeRemaining(w, now), nil
	case errors.Is(err, apartment.ErrWindowClosed), errors.Is(err, apartment.ErrApartmentInactive):
		return nil, 0, nil
	default:
		return nil, 0, err
	}
}
