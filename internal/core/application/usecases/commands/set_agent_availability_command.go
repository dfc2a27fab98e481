package commands

import (
	"errors"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"
)

var ErrSetAgentAvailabilityCommandIsNotConstructed = errors.New(
	"SetAgentAvailabilityCommand must be created via NewSetAgentAvailabilityCommand constructor",
)

// SetAgentAvailabilityCommand is the agent toggling between available, busy
// and offline from the agent client.
type SetAgentAvailabilityCommand struct {
	agentID kernel.UUID
	status  agent.Status

	guard guard.ConstructorGuard
}

// NewSetAgentAvailabilityCommand creates the command.
func NewSetAgentAvailabilityCommand(agentID kernel.UUID, status agent.Status) (SetAgentAvailabilityCommand, error) {
	if err := errors.Join(agentID.Validate(), status.Validate()); err != nil {
		return SetAgentAvailabilityCommand{}, err
	}

	return SetAgentAvailabilityCommand{
		agentID: agentID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetAgentAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAgentAvailabilityCommandIsNotConstructed)
}

func (c SetAgentAvailabilityCommand) AgentID() kernel.UUID { return c.agentID }
func (c SetAgentAvailabilityCommand) Status() agent.Status { return c.status }
