package commands

import (
	"context"
	"errors"

	"kirana/internal/pkg/errs"
)

const (
	// DefaultAssignmentAttempts bounds how often an assignment is retried
	// after losing a race for an agent.
	DefaultAssignmentAttempts = 3
	// DefaultJoinAttempts bounds how often a bulk join is retried after a
	// concurrent join on the same apartment and day.
	DefaultJoinAttempts = 5
	// DefaultUpdateAttempts bounds retries of single-actor transitions that
	// race with assignment or release on the same aggregate.
	DefaultUpdateAttempts = 3
)

// retryOnConflict runs op up to attempts times while it fails with a
// concurrency conflict. Each run must start a fresh unit of work and re-read
// everything it writes. The last conflict is returned when attempts run out.
func retryOnConflict(ctx context.Context, attempts int, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for range attempts {
		err = op()
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
	}
	return err
}
