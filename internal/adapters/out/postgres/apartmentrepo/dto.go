// Package apartmentrepo persists apartments and their ordering windows.
package apartmentrepo

import (
	"errors"
	"time"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ApartmentDTO represents the database model for apartments.
type ApartmentDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"type:varchar(255);not null"`
	Address            string
	Lat                *float64
	Lng                *float64
	DeliveryRadiusKm   float64     `gorm:"not null;default:0"`
	TotalFamilies      int         `gorm:"not null;default:0"`
	RegisteredFamilies int         `gorm:"not null;default:0"`
	IsActive           bool        `gorm:"not null;default:true"`
	Windows            []WindowDTO `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for apartments.
func (ApartmentDTO) TableName() string {
	return "apartments"
}

// WindowDTO is one ordering window. Position keeps the configured order,
// which decides which window wins when two overlap. Times are seconds since
// midnight in the marketplace timezone.
type WindowDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ApartmentID  uuid.UUID      `gorm:"type:uuid;index;not null"`
	Position     int            `gorm:"not null"`
	Label        string         `gorm:"type:varchar(64)"`
	StartSeconds int            `gorm:"not null"`
	EndSeconds   int            `gorm:"not null"`
	DaysOfWeek   pq.StringArray `gorm:"type:text[];not null"`
	IsActive     bool           `gorm:"not null;default:true"`
}

// TableName specifies the database table name for ordering windows.
func (WindowDTO) TableName() string {
	return "apartment_order_windows"
}

func fromDomain(a *apartment.Apartment) ApartmentDTO {
	dto := ApartmentDTO{
		ID:                 a.ID().Bytes(),
		Name:               a.Name(),
		Address:            a.Address(),
		DeliveryRadiusKm:   a.DeliveryRadiusKm(),
		TotalFamilies:      a.TotalFamilies(),
		RegisteredFamilies: a.RegisteredFamilies(),
		IsActive:           a.IsActive(),
	}
	if loc := a.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}

	for i, w := range a.Windows() {
		days := make(pq.StringArray, 0, len(w.Days()))
		for _, d := range w.Days() {
			days = append(days, d.String())
		}
		dto.Windows = append(dto.Windows, WindowDTO{
			ID:           w.ID().Bytes(),
			ApartmentID:  dto.ID,
			Position:     i,
			Label:        w.Label(),
			StartSeconds: int(w.Start()),
			EndSeconds:   int(w.End()),
			DaysOfWeek:   days,
			IsActive:     w.IsActive(),
		})
	}
	return dto
}

func toDomain(dto ApartmentDTO) (*apartment.Apartment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Lat != nil && dto.Lng != nil {
		loc, err := kernel.NewLocation(*dto.Lat, *dto.Lng)
		if err != nil {
			return nil, err
		}
		location = &loc
	}

	windows := make([]apartment.Window, 0, len(dto.Windows))
	var errList []error
	for _, wd := range dto.Windows {
		w, err := windowToDomain(wd)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		windows = append(windows, w)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return apartment.NewApartment(id, dto.Name, dto.Address, location, dto.DeliveryRadiusKm,
		dto.TotalFamilies, dto.RegisteredFamilies, dto.IsActive, windows)
}

func windowToDomain(dto WindowDTO) (apartment.Window, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return apartment.Window{}, err
	}

	days := make([]time.Weekday, 0, len(dto.DaysOfWeek))
	for _, s := range dto.DaysOfWeek {
		d, err := apartment.ParseWeekday(s)
		if err != nil {
			return apartment.Window{}, err
		}
		days = append(days, d)
	}

	return apartment.NewWindow(id, dto.Label, kernel.TimeOfDay(dto.StartSeconds), kernel.TimeOfDay(dto.EndSeconds),
		days, dto.IsActive)
}
