// Package orderrepo provides data transfer objects and mapping functions for order persistence.
package orderrepo

import (
	"errors"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database model for order entities.
// Statuses are stored by name so the table stays readable from psql.
type OrderDTO struct {
	ID              uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID                    `gorm:"type:uuid;index;not null"`
	StoreID         uuid.UUID                    `gorm:"type:uuid;index;not null"`
	Status          string                       `gorm:"type:varchar(32);index;not null"`
	DeliveryStatus  string                       `gorm:"type:varchar(32);index;not null"`
	AgentID         *uuid.UUID                   `gorm:"type:uuid;index"`
	BatchID         *uuid.UUID                   `gorm:"type:uuid"`
	PaymentMethod   string                       `gorm:"type:varchar(16);not null"`
	CodConfirmed    bool                         `gorm:"not null;default:false"`
	Items           datatypes.JSONSlice[ItemDTO] `gorm:"not null"`
	TotalAmount     decimal.Decimal              `gorm:"type:numeric(12,2);not null"`
	Shop            ShopDTO                      `gorm:"embedded;embeddedPrefix:shop_"`
	CustomerAddress string
	CreatedAt       time.Time `gorm:"index;not null"`
	Version         int64     `gorm:"not null;default:0"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one line item inside the items JSON column.
type ItemDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ShopDTO is the store snapshot embedded in the orders row.
type ShopDTO struct {
	Name    string
	Address string
	Lat     *float64
	Lng     *float64
}

// HistoryDTO is one row of the append-only status history.
type HistoryDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq     int       `gorm:"primaryKey;autoIncrement:false"`
	Label   string    `gorm:"type:varchar(64);not null"`
	At      time.Time `gorm:"not null"`
}

// TableName specifies the database table name for order history rows.
func (HistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemDTO{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	shop := ShopDTO{
		Name:    o.Shop().Name(),
		Address: o.Shop().Address(),
	}
	if loc := o.Shop().Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		shop.Lat, shop.Lng = &lat, &lng
	}

	return OrderDTO{
		ID:              o.ID().Bytes(),
		CustomerID:      o.CustomerID().Bytes(),
		StoreID:         o.StoreID().Bytes(),
		Status:          o.Status().String(),
		DeliveryStatus:  o.DeliveryStatus().String(),
		AgentID:         uuidPtr(o.AgentID()),
		BatchID:         uuidPtr(o.BatchID()),
		PaymentMethod:   string(o.PaymentMethod()),
		CodConfirmed:    o.CodConfirmed(),
		Items:           datatypes.NewJSONSlice(items),
		TotalAmount:     o.TotalAmount(),
		Shop:            shop,
		CustomerAddress: o.CustomerAddress(),
		CreatedAt:       o.CreatedAt(),
		Version:         o.Version(),
	}
}

func historyFromDomain(o *order.Order) []HistoryDTO {
	history := o.History()
	rows := make([]HistoryDTO, 0, len(history))
	for i, entry := range history {
		rows = append(rows, HistoryDTO{
			OrderID: o.ID().Bytes(),
			Seq:     i,
			Label:   entry.Label,
			At:      entry.At,
		})
	}
	return rows
}

func toDomain(dto OrderDTO, history []HistoryDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}
	agentID, err := kernelPtr(dto.AgentID)
	if err != nil {
		return nil, err
	}
	batchID, err := kernelPtr(dto.BatchID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	deliveryStatus, err := order.ParseDeliveryStatus(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	var itemErrs []error
	for _, it := range dto.Items {
		item, err := order.NewItem(it.ProductID, it.Name, it.Quantity, it.UnitPrice)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return nil, err
	}

	var shopLoc *kernel.Location
	if dto.Shop.Lat != nil && dto.Shop.Lng != nil {
		loc, err := kernel.NewLocation(*dto.Shop.Lat, *dto.Shop.Lng)
		if err != nil {
			return nil, err
		}
		shopLoc = &loc
	}
	var shop order.ShopSnapshot
	if dto.Shop.Name != "" {
		if shop, err = order.NewShopSnapshot(dto.Shop.Name, dto.Shop.Address, shopLoc); err != nil {
			return nil, err
		}
	}

	entries := make([]kernel.HistoryEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, kernel.HistoryEntry{Label: h.Label, At: h.At})
	}

	return order.RestoreOrder(order.RestoreState{
		ID:              id,
		CustomerID:      customerID,
		StoreID:         storeID,
		Status:          status,
		DeliveryStatus:  deliveryStatus,
		AgentID:         agentID,
		BatchID:         batchID,
		PaymentMethod:   paymentMethod,
		CodConfirmed:    dto.CodConfirmed,
		Items:           items,
		TotalAmount:     dto.TotalAmount,
		Shop:            shop,
		CustomerAddress: dto.CustomerAddress,
		History:         entries,
		CreatedAt:       dto.CreatedAt,
		Version:         dto.Version,
	})
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	b := id.Bytes()
	return &b
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	k, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &k, nil
}
