package apartment

import (
	"errors"
	"slices"
	"strings"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

var (
	// ErrApartmentIsNotConstructed is returned when using a zero-value Apartment.
	ErrApartmentIsNotConstructed = errors.New("Apartment must be created via NewApartment constructor")
	// ErrApartmentInactive is returned when joining a bulk order of a disabled apartment.
	ErrApartmentInactive = errors.New("apartment is not active")
	// ErrWindowClosed is returned when no ordering window covers the current time.
	ErrWindowClosed = errors.New("ordering window closed")
)

// Apartment is a residential complex whose residents can pool orders.
type Apartment struct {
	id                 kernel.UUID
	name               string
	address            string
	location           *kernel.Location
	deliveryRadiusKm   float64
	totalFamilies      int
	registeredFamilies int
	isActive           bool
	windows            []Window
	guard              guard.ConstructorGuard
}

// NewApartment validates and builds an Apartment. Windows keep the given
// order, which is the order WindowResolver scans them in.
func NewApartment(
	id kernel.UUID,
	name, address string,
	location *kernel.Location,
	deliveryRadiusKm float64,
	totalFamilies, registeredFamilies int,
	isActive bool,
	windows []Window,
) (*Apartment, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if deliveryRadiusKm < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("deliveryRadius", deliveryRadiusKm, 0, "unbounded"))
	}
	if totalFamilies < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("totalFamilies", totalFamilies, 0, "unbounded"))
	}
	if registeredFamilies < 0 || registeredFamilies > totalFamilies {
		errList = append(errList, errs.NewValueIsOutOfRangeError("registeredFamilies", registeredFamilies, 0, totalFamilies))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Apartment{
		id:                 id,
		name:               strings.TrimSpace(name),
		address:            strings.TrimSpace(address),
		location:           location,
		deliveryRadiusKm:   deliveryRadiusKm,
		totalFamilies:      totalFamilies,
		registeredFamilies: registeredFamilies,
		isActive:           isActive,
		windows:            slices.Clone(windows),
		guard:              guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the apartment was built by NewApartment.
func (a *Apartment) Validate() error {
	if a == nil {
		return ErrApartmentIsNotConstructed
	}
	return a.guard.Validate(ErrApartmentIsNotConstructed)
}

func (a *Apartment) ID() kernel.UUID            { return a.id }
func (a *Apartment) Name() string               { return a.name }
func (a *Apartment) Address() string            { return a.address }
func (a *Apartment) Location() *kernel.Location { return a.location }
func (a *Apartment) DeliveryRadiusKm() float64  { return a.deliveryRadiusKm }
func (a *Apartment) TotalFamilies() int         { return a.totalFamilies }
func (a *Apartment) RegisteredFamilies() int    { return a.registeredFamilies }
func (a *Apartment) IsActive() bool             { return a.isActive }

// Windows returns the ordering windows in their configured order.
func (a *Apartment) Windows() []Window {
	return slices.Clone(a.windows)
}
