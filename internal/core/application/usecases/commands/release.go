package commands

import (
	"context"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/ports"
)

// releaseAgent frees one delivery slot of the agent within the caller's
// transaction.
func releaseAgent(ctx context.Context, repo ports.AgentRepository, agentID kernel.UUID, now time.Time) error {
	a, err := repo.Get(ctx, agentID)
	if err != nil {
		return err
	}
	a.Release(now)
	return repo.Update(ctx, a)
}
