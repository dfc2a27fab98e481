// Package jobs provides scheduled background tasks for order fulfillment.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// AssignmentSweepJob picks up orders that reached ReadyForPickup without an
// agent, usually because nobody was free at that moment, and retries the
// automatic least-loaded assignment for them.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(orderRepo, assignHandler, cfg.AssignmentSweepSchedule, metrics, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron format with a leading seconds field. The
// default "*/30 * * * * *" runs twice a minute. A run that is still going when
// the next one is due causes that next run to be skipped.
//
// # Error Handling
//
// Expected business outcomes (no free agent, order already taken, lost race)
// are not logged as failures. Running out of agents ends the run early.
package jobs
