package apartmentrepo

import (
	"context"
	"errors"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormApartmentRepository implements ports.ApartmentRepository using GORM.
// Apartments record no events, so nothing is tracked.
type GormApartmentRepository struct {
	db *gorm.DB
}

func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

// Add inserts the apartment together with its windows.
func (r *GormApartmentRepository) Add(ctx context.Context, aggregate *apartment.Apartment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrencyConflictErrorWithCause("apartment", aggregate.ID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormApartmentRepository) Get(ctx context.Context, id kernel.UUID) (*apartment.Apartment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ApartmentDTO
	err := r.db.WithContext(ctx).
		Preload("Windows", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("apartment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
