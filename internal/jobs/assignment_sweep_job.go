package jobs

import (
	"context"
	"errors"
	"log/slog"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"
	"kirana/internal/telemetry"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultSweepSchedule runs the sweep every 30 seconds.
	DefaultSweepSchedule = "*/30 * * * * *"
	// DefaultSweepBatchSize caps how many orders one run looks at.
	DefaultSweepBatchSize = 50
)

// ReadyOrderFinder lists orders that are ready for pickup and have no agent.
type ReadyOrderFinder interface {
	GetReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error)
}

// AssignmentSweepJob retries automatic assignment for ready orders that were
// left without an agent, oldest first, using the least-loaded strategy.
type AssignmentSweepJob struct {
	finder    ReadyOrderFinder
	assigner  commands.AgentAssigner
	metrics   telemetry.Metrics
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAssignmentSweepJob creates the sweep. An empty schedule means
// DefaultSweepSchedule; schedules use the six-field format with seconds.
func NewAssignmentSweepJob(
	finder ReadyOrderFinder,
	assigner commands.AgentAssigner,
	schedule string,
	metrics telemetry.Metrics,
	logger *slog.Logger,
) *AssignmentSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &AssignmentSweepJob{
		finder:    finder,
		assigner:  assigner,
		metrics:   metrics,
		schedule:  schedule,
		batchSize: DefaultSweepBatchSize,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "assignment_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *AssignmentSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Assignment sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment sweep job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *AssignmentSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Assignment sweep job stopped")
}

// Sweep runs one pass and returns how many orders got an agent. It stops
// early once no agent is free, since the rest of the batch would fail the
// same way.
func (j *AssignmentSweepJob) Sweep(ctx context.Context) (int, error) {
	orders, err := j.finder.GetReadyUnassigned(ctx, j.batchSize)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, o := range orders {
		cmd, err := commands.NewAssignAgentCommand(o.ID(), services.StrategyLeastLoaded)
		if err != nil {
			return assigned, err
		}

		result, err := j.assigner.Handle(ctx, cmd)
		j.metrics.RecordAssignment(ctx, "order", string(services.StrategyLeastLoaded), "sweep", err)
		switch {
		case err == nil:
			assigned++
			j.logger.InfoContext(ctx, "Order assigned by sweep",
				"order_id", o.ID().String(),
				"agent_id", result.AgentID.String(),
			)
		case errors.Is(err, services.ErrNoAgentsAvailable):
			j.logger.DebugContext(ctx, "No agents available, sweep paused", "pending", len(orders)-assigned)
			return assigned, nil
		case errors.Is(err, order.ErrAlreadyAssigned),
			errors.Is(err, errs.ErrConcurrencyConflict),
			errors.Is(err, errs.ErrInvalidTransition):
			// Someone else got there first or the order moved on.
		default:
			j.logger.ErrorContext(ctx, "Sweep could not assign order", "order_id", o.ID().String(), "error", err)
		}
	}
	return assigned, nil
}
