package queries

import (
	"context"
	"database/sql"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAgentOrdersQueryHandler reads the orders bound to an agent whose
// delivery is Assigned, PickedUp or OutForDelivery, oldest first.
type GetAgentOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetAgentOrdersQueryHandler(db *gorm.DB) GetAgentOrdersQueryHandler {
	return GetAgentOrdersQueryHandler{db: db}
}

func (h GetAgentOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAgentOrdersQuery,
) ([]GetAgentOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			batch_id,
			status,
			delivery_status,
			payment_method,
			cod_confirmed,
			total_amount,
			shop_name,
			shop_address,
			shop_lat,
			shop_lng,
			customer_address,
			created_at
		FROM orders
		WHERE agent_id = ? AND delivery_status IN ?
		ORDER BY created_at, id
	`, query.AgentID().Bytes(), []string{
		order.DeliveryAssigned.String(),
		order.DeliveryPickedUp.String(),
		order.DeliveryOutForDelivery.String(),
	}).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetAgentOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp     GetAgentOrdersQueryResponse
			id       uuid.UUID
			batchID  uuid.NullUUID
			amount   decimal.Decimal
			lat, lng sql.NullFloat64
			address  sql.NullString
			custAddr sql.NullString
			created  time.Time
		)
		if err := rows.Scan(
			&id,
			&batchID,
			&resp.Status,
			&resp.DeliveryStatus,
			&resp.PaymentMethod,
			&resp.CodConfirmed,
			&amount,
			&resp.ShopName,
			&address,
			&lat,
			&lng,
			&custAddr,
			&created,
		); err != nil {
			return nil, err
		}

		if resp.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if batchID.Valid {
			b, err := kernel.UUIDFromBytes(batchID.UUID[:])
			if err != nil {
				return nil, err
			}
			resp.BatchID = &b
		}
		if resp.ShopLocation, err = nullableLocation(lat, lng); err != nil {
			return nil, err
		}
		resp.TotalAmount = amount
		resp.ShopAddress = address.String
		resp.CustomerAddress = custAddr.String
		resp.CreatedAt = created
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullableLocation(lat, lng sql.NullFloat64) (*kernel.Location, error) {
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}
	loc, err := kernel.NewLocation(lat.Float64, lng.Float64)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
