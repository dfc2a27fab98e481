package commands

import (
	"errors"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/pkg/guard"
)

var ErrRegisterApartmentCommandIsNotConstructed = errors.New(
	"RegisterApartmentCommand must be created via NewRegisterApartmentCommand constructor",
)

// RegisterApartmentCommand seeds an apartment with its ordering windows.
type RegisterApartmentCommand struct {
	apartment *apartment.Apartment

	guard guard.ConstructorGuard
}

// NewRegisterApartmentCommand creates the command from an already validated
// apartment.
func NewRegisterApartmentCommand(apt *apartment.Apartment) (RegisterApartmentCommand, error) {
	if err := apt.Validate(); err != nil {
		return RegisterApartmentCommand{}, err
	}

	return RegisterApartmentCommand{
		apartment: apt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterApartmentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterApartmentCommandIsNotConstructed)
}

// Apartment returns the apartment to store.
func (c RegisterApartmentCommand) Apartment() *apartment.Apartment {
	return c.apartment
}
