package commands

import "context"

// TriggerReady marks assignments started by a ReadyForPickup or Ready
// transition.
const TriggerReady = "ready"

// AssignmentRecorder counts assignment attempts. telemetry.Metrics
// implements it.
type AssignmentRecorder interface {
	RecordAssignment(ctx context.Context, target, strategy, trigger string, err error)
}
