// Package bulkorderrepo persists per-apartment, per-day bulk orders.
package bulkorderrepo

import (
	"errors"
	"time"

	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BulkOrderDTO is keyed by the natural key "<apartmentId>:YYYY-MM-DD", so a
// second creator of the same day's record hits the primary key.
type BulkOrderDTO struct {
	Key                   string          `gorm:"type:varchar(64);primaryKey"`
	ApartmentID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	Date                  string          `gorm:"type:varchar(10);not null"`
	Status                string          `gorm:"type:varchar(32);index;not null"`
	DeliveryFeeDiscount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AgentID               *uuid.UUID      `gorm:"type:uuid;index"`
	DeliverySlot          string          `gorm:"type:varchar(64)"`
	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time
	CreatedAt             time.Time `gorm:"not null"`
	Version               int64     `gorm:"not null;default:0"`
}

// TableName specifies the database table name for bulk orders.
func (BulkOrderDTO) TableName() string {
	return "bulk_orders"
}

// ParticipantDTO is one family's entry. The primary key rejects the same
// individual order twice in one bulk order.
type ParticipantDTO struct {
	BulkOrderKey      string                       `gorm:"type:varchar(64);primaryKey"`
	IndividualOrderID uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	Position          int                          `gorm:"not null"`
	CustomerID        uuid.UUID                    `gorm:"type:uuid;not null"`
	StoreID           uuid.UUID                    `gorm:"type:uuid;not null"`
	Items             datatypes.JSONSlice[ItemDTO] `gorm:"not null"`
	TotalAmount       decimal.Decimal              `gorm:"type:numeric(12,2);not null"`
	JoinedAt          time.Time                    `gorm:"not null"`
}

// TableName specifies the database table name for participants.
func (ParticipantDTO) TableName() string {
	return "bulk_order_participants"
}

// ItemDTO is one line item inside the participant items JSON column.
type ItemDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// HistoryDTO is one row of the bulk order's status history.
type HistoryDTO struct {
	BulkOrderKey string    `gorm:"type:varchar(64);primaryKey"`
	Seq          int       `gorm:"primaryKey;autoIncrement:false"`
	Label        string    `gorm:"type:varchar(64);not null"`
	At           time.Time `gorm:"not null"`
}

// TableName specifies the database table name for bulk order history rows.
func (HistoryDTO) TableName() string {
	return "bulk_order_status_history"
}

func fromDomain(b *bulkorder.BulkOrder) BulkOrderDTO {
	var agentID *uuid.UUID
	if id := b.AgentID(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	return BulkOrderDTO{
		Key:                   b.Key(),
		ApartmentID:           b.ApartmentID().Bytes(),
		Date:                  b.Date(),
		Status:                b.Status().String(),
		DeliveryFeeDiscount:   b.DeliveryFeeDiscount(),
		AgentID:               agentID,
		DeliverySlot:          b.DeliverySlot(),
		EstimatedDeliveryDate: b.EstimatedDeliveryDate(),
		ActualDeliveryDate:    b.ActualDeliveryDate(),
		CreatedAt:             b.CreatedAt(),
		Version:               b.Version(),
	}
}

func participantsFromDomain(b *bulkorder.BulkOrder) []ParticipantDTO {
	participants := b.Participants()
	rows := make([]ParticipantDTO, 0, len(participants))
	for i, p := range participants {
		items := make([]ItemDTO, 0, len(p.Items()))
		for _, it := range p.Items() {
			items = append(items, ItemDTO{
				ProductID: it.ProductID(),
				Name:      it.Name(),
				Quantity:  it.Quantity(),
				UnitPrice: it.UnitPrice(),
			})
		}
		rows = append(rows, ParticipantDTO{
			BulkOrderKey:      b.Key(),
			IndividualOrderID: p.IndividualOrderID().Bytes(),
			Position:          i,
			CustomerID:        p.CustomerID().Bytes(),
			StoreID:           p.StoreID().Bytes(),
			Items:             datatypes.NewJSONSlice(items),
			TotalAmount:       p.TotalAmount(),
			JoinedAt:          p.JoinedAt(),
		})
	}
	return rows
}

func historyFromDomain(b *bulkorder.BulkOrder) []HistoryDTO {
	history := b.History()
	rows := make([]HistoryDTO, 0, len(history))
	for i, entry := range history {
		rows = append(rows, HistoryDTO{
			BulkOrderKey: b.Key(),
			Seq:          i,
			Label:        entry.Label,
			At:           entry.At,
		})
	}
	return rows
}

func toDomain(dto BulkOrderDTO, participants []ParticipantDTO, history []HistoryDTO) (*bulkorder.BulkOrder, error) {
	apartmentID, err := kernel.UUIDFromBytes(dto.ApartmentID[:])
	if err != nil {
		return nil, err
	}
	status, err := bulkorder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	var agentID *kernel.UUID
	if dto.AgentID != nil {
		id, err := kernel.UUIDFromBytes(dto.AgentID[:])
		if err != nil {
			return nil, err
		}
		agentID = &id
	}

	ps := make([]bulkorder.Participant, 0, len(participants))
	var errList []error
	for _, row := range participants {
		p, err := participantToDomain(row)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		ps = append(ps, p)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	entries := make([]kernel.HistoryEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, kernel.HistoryEntry{Label: h.Label, At: h.At})
	}

	return bulkorder.RestoreBulkOrder(bulkorder.RestoreState{
		Key:                   dto.Key,
		ApartmentID:           apartmentID,
		Date:                  dto.Date,
		Status:                status,
		Participants:          ps,
		DeliveryFeeDiscount:   dto.DeliveryFeeDiscount,
		AgentID:               agentID,
		DeliverySlot:          dto.DeliverySlot,
		EstimatedDeliveryDate: dto.EstimatedDeliveryDate,
		ActualDeliveryDate:    dto.ActualDeliveryDate,
		History:               entries,
		CreatedAt:             dto.CreatedAt,
		Version:               dto.Version,
	})
}

func participantToDomain(row ParticipantDTO) (bulkorder.Participant, error) {
	customerID, err := kernel.UUIDFromBytes(row.CustomerID[:])
	if err != nil {
		return bulkorder.Participant{}, err
	}
	orderID, err := kernel.UUIDFromBytes(row.IndividualOrderID[:])
	if err != nil {
		return bulkorder.Participant{}, err
	}
	storeID, err := kernel.UUIDFromBytes(row.StoreID[:])
	if err != nil {
		return bulkorder.Participant{}, err
	}

	items := make([]order.Item, 0, len(row.Items))
	for _, it := range row.Items {
		item, err := order.NewItem(it.ProductID, it.Name, it.Quantity, it.UnitPrice)
		if err != nil {
			return bulkorder.Participant{}, err
		}
		items = append(items, item)
	}

	return bulkorder.NewParticipant(customerID, orderID, storeID, items, row.TotalAmount, row.JoinedAt)
}
