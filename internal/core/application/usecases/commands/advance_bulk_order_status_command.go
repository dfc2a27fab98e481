package commands

import (
	"errors"
	"strings"

	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

var ErrAdvanceBulkOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceBulkOrderStatusCommand must be created via NewAdvanceBulkOrderStatusCommand constructor",
)

// AdvanceBulkOrderStatusCommand moves a bulk order through its lifecycle.
type AdvanceBulkOrderStatusCommand struct {
	key    string
	target bulkorder.Status

	guard guard.ConstructorGuard
}

// NewAdvanceBulkOrderStatusCommand creates the command.
func NewAdvanceBulkOrderStatusCommand(key string, target bulkorder.Status) (AdvanceBulkOrderStatusCommand, error) {
	var errList []error
	if strings.TrimSpace(key) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("key"))
	}
	if err := target.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return AdvanceBulkOrderStatusCommand{}, err
	}

	return AdvanceBulkOrderStatusCommand{
		key:    key,
		target: target,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceBulkOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceBulkOrderStatusCommandIsNotConstructed)
}

func (c AdvanceBulkOrderStatusCommand) BulkOrderKey() string     { return c.key }
func (c AdvanceBulkOrderStatusCommand) Target() bulkorder.Status { return c.target }
