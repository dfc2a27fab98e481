package bulkorderrepo

import (
	"context"
	"errors"

	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const aggregateName = "bulk order"

// GormBulkOrderRepository implements ports.BulkOrderRepository using GORM.
//
// Participants and history are append-only child tables. Update bumps the
// version on the parent row first, so only the writer holding the current
// version gets to append.
type GormBulkOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id string, aggregate kernel.EventSource)
}

func NewGormBulkOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormBulkOrderRepository {
	return &GormBulkOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormBulkOrderRepository) Add(ctx context.Context, aggregate *bulkorder.BulkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrencyConflictErrorWithCause(aggregateName, aggregate.Key(), err)
		}
		return err
	}
	if err := r.appendChildren(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.Key(), aggregate)
	return nil
}

func (r *GormBulkOrderRepository) Update(ctx context.Context, aggregate *bulkorder.BulkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&BulkOrderDTO{}).
		Where("key = ? AND version = ?", dto.Key, aggregate.Version()).
		Select("*").
		Omit("key", "apartment_id", "date", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError(aggregateName, aggregate.Key())
	}
	if err := r.appendChildren(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.Key(), aggregate)
	return nil
}

func (r *GormBulkOrderRepository) Get(ctx context.Context, key string) (*bulkorder.BulkOrder, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}

	db := r.db.WithContext(ctx)
	var dto BulkOrderDTO
	if err := db.First(&dto, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(aggregateName, key)
		}
		return nil, err
	}

	var participants []ParticipantDTO
	if err := db.Where("bulk_order_key = ?", key).Order("position").Find(&participants).Error; err != nil {
		return nil, err
	}
	var history []HistoryDTO
	if err := db.Where("bulk_order_key = ?", key).Order("seq").Find(&history).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, participants, history)
}

func (r *GormBulkOrderRepository) appendChildren(ctx context.Context, aggregate *bulkorder.BulkOrder) error {
	db := r.db.WithContext(ctx)

	if participants := participantsFromDomain(aggregate); len(participants) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&participants).Error; err != nil {
			return err
		}
	}
	if history := historyFromDomain(aggregate); len(history) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&history).Error; err != nil {
			return err
		}
	}
	return nil
}
