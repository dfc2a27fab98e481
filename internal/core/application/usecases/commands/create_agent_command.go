package commands

import (
	"errors"
	"strings"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/guard"
)

var ErrCreateAgentCommandIsNotConstructed = errors.New(
	"CreateAgentCommand must be created via NewCreateAgentCommand constructor",
)

// CreateAgentCommand registers the delivery capability for an existing actor.
//
// Example:
//
//	cmd, err := NewCreateAgentCommand(actorID, "Ravi")
//	if err != nil {
//	    return fmt.Errorf("invalid agent data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateAgentCommand struct {
	agentID kernel.UUID
	name    string

	guard guard.ConstructorGuard
}

// NewCreateAgentCommand creates the command. agentID is the actor id of the
// user who delivers.
func NewCreateAgentCommand(agentID kernel.UUID, name string) (CreateAgentCommand, error) {
	if err := agentID.Validate(); err != nil {
		return CreateAgentCommand{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return CreateAgentCommand{}, agent.ErrNameIsRequired
	}

	return CreateAgentCommand{
		agentID: agentID,
		name:    name,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAgentCommand) Validate() error {
	return c.guard.Validate(ErrCreateAgentCommandIsNotConstructed)
}

// AgentID returns the actor id the capability belongs to.
func (c CreateAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Name returns the display name of the agent.
func (c CreateAgentCommand) Name() string {
	return c.name
}
