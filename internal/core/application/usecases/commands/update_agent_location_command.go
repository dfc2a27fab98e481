package commands

import (
	"errors"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"
)

var ErrUpdateAgentLocationCommandIsNotConstructed = errors.New(
	"UpdateAgentLocationCommand must be created via NewUpdateAgentLocationCommand constructor",
)

// UpdateAgentLocationCommand is a location ping from the agent client.
type UpdateAgentLocationCommand struct {
	agentID  kernel.UUID
	location kernel.Location

	guard guard.ConstructorGuard
}

// NewUpdateAgentLocationCommand creates the command.
func NewUpdateAgentLocationCommand(agentID kernel.UUID, location kernel.Location) (UpdateAgentLocationCommand, error) {
	if err := errors.Join(agentID.Validate(), location.Validate()); err != nil {
		return UpdateAgentLocationCommand{}, err
	}

	return UpdateAgentLocationCommand{
		agentID:  agentID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateAgentLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAgentLocationCommandIsNotConstructed)
}

func (c UpdateAgentLocationCommand) AgentID() kernel.UUID      { return c.agentID }
func (c UpdateAgentLocationCommand) Location() kernel.Location { return c.location }
