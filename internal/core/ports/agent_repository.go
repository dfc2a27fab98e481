package ports

import (
	"context"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agents.
type AgentRepository interface {
	// Add registers a new agent. A second agent for the same actor id
	// is reported as errs.ConcurrencyConflictError.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists status, counter and location guarded by the version.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent by actor id.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetAllEligible returns agents that are available or busy and below the
	// delivery cap, ordered by id so ties resolve the same way every time.
	GetAllEligible(ctx context.Context) ([]*agent.Agent, error)
}
