package commands

import (
	"errors"
	"strings"

	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

var ErrAssignBulkOrderAgentCommandIsNotConstructed = errors.New(
	"AssignBulkOrderAgentCommand must be created via NewAssignBulkOrderAgentCommand constructor",
)

// AssignBulkOrderAgentCommand binds a whole bulk order to one agent.
type AssignBulkOrderAgentCommand struct {
	bulkOrderKey string
	strategy     services.Strategy

	guard guard.ConstructorGuard
}

// NewAssignBulkOrderAgentCommand creates the command for the bulk order key.
func NewAssignBulkOrderAgentCommand(bulkOrderKey string, strategy services.Strategy) (AssignBulkOrderAgentCommand, error) {
	bulkOrderKey = strings.TrimSpace(bulkOrderKey)
	if bulkOrderKey == "" {
		return AssignBulkOrderAgentCommand{}, errs.NewValueIsRequiredError("bulkOrderKey")
	}
	parsed, err := services.ParseStrategy(string(strategy))
	if err != nil {
		return AssignBulkOrderAgentCommand{}, err
	}

	return AssignBulkOrderAgentCommand{
		bulkOrderKey: bulkOrderKey,
		strategy:     parsed,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignBulkOrderAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignBulkOrderAgentCommandIsNotConstructed)
}

func (c AssignBulkOrderAgentCommand) BulkOrderKey() string        { return c.bulkOrderKey }
func (c AssignBulkOrderAgentCommand) Strategy() services.Strategy { return c.strategy }
