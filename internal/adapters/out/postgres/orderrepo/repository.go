package orderrepo

import (
	"context"
	"errors"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const aggregateName = "order"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id string, aggregate kernel.EventSource)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its first history entries.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrencyConflictErrorWithCause(aggregateName, aggregate.ID().String(), err)
		}
		return err
	}
	if err := r.appendHistory(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Update writes every column of the order when the stored version still
// equals the one it was read with, and appends the new history entries.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError(aggregateName, aggregate.ID().String())
	}
	if err := r.appendHistory(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(aggregateName, id.String())
		}
		return nil, err
	}

	orders, err := r.withHistory(ctx, []OrderDTO{dto})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// FindBatchForAgent returns the batch of the agent's oldest order still
// waiting to be picked up or in the agent's bag.
func (r *GormOrderRepository) FindBatchForAgent(ctx context.Context, agentID kernel.UUID) (*kernel.UUID, error) {
	if err := agentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND batch_id IS NOT NULL AND delivery_status IN ?", agentID.Bytes(),
			[]string{order.DeliveryAssigned.String(), order.DeliveryPickedUp.String()}).
		Order("created_at").
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return kernelPtr(dtos[0].BatchID)
}

// GetByAgent returns the orders the agent is still delivering, oldest first.
func (r *GormOrderRepository) GetByAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error) {
	if err := agentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND delivery_status IN ?", agentID.Bytes(), []string{
			order.DeliveryAssigned.String(),
			order.DeliveryPickedUp.String(),
			order.DeliveryOutForDelivery.String(),
		}).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return r.withHistory(ctx, dtos)
}

// GetReadyUnassigned returns ready orders nobody has picked up yet.
func (r *GormOrderRepository) GetReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND agent_id IS NULL", order.StatusReadyForPickup.String()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return r.withHistory(ctx, dtos)
}

// appendHistory inserts history rows by sequence number; rows already
// stored are left alone.
func (r *GormOrderRepository) appendHistory(ctx context.Context, aggregate *order.Order) error {
	rows := historyFromDomain(aggregate)
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *GormOrderRepository) withHistory(ctx context.Context, dtos []OrderDTO) ([]*order.Order, error) {
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	var rows []HistoryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id, seq").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]HistoryDTO, len(dtos))
	for _, row := range rows {
		byOrder[row.OrderID] = append(byOrder[row.OrderID], row)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto, byOrder[dto.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
