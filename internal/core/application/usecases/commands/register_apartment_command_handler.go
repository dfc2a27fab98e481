package commands

import (
	"context"
)

// RegisterApartmentCommandHandler stores a new apartment.
type RegisterApartmentCommandHandler struct {
	uowFactory ApartmentUoWFactory
}

// NewRegisterApartmentCommandHandler creates the handler.
func NewRegisterApartmentCommandHandler(uowFactory ApartmentUoWFactory) RegisterApartmentCommandHandler {
	return RegisterApartmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle persists the apartment with its windows.
func (h RegisterApartmentCommandHandler) Handle(ctx context.Context, command RegisterApartmentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ApartmentRepository().Add(ctx, command.Apartment()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
