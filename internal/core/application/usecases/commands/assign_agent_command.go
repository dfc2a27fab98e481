package commands

import (
	"errors"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand asks the assignment engine to bind an order to the
// cheapest eligible agent under the given strategy.
//
// Example:
//
//	cmd, err := NewAssignAgentCommand(orderID, services.StrategyScored)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, services.ErrNoAgentsAvailable) {
//	    // tell the operator to try again later
//	}
type AssignAgentCommand struct {
	orderID  kernel.UUID
	strategy services.Strategy

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates the command. An empty strategy means scored.
func NewAssignAgentCommand(orderID kernel.UUID, strategy services.Strategy) (AssignAgentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignAgentCommand{}, err
	}
	parsed, err := services.ParseStrategy(string(strategy))
	if err != nil {
		return AssignAgentCommand{}, err
	}

	return AssignAgentCommand{
		orderID:  orderID,
		strategy: parsed,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

func (c AssignAgentCommand) OrderID() kernel.UUID        { return c.orderID }
func (c AssignAgentCommand) Strategy() services.Strategy { return c.strategy }
