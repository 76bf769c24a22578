// Package jobs provides scheduled background tasks for the order processing
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for batch settlement.
//
// # Available Jobs
//
// 1. BatchReconciliationJob - Runs every five seconds to complete batches
// whose orders have all reached a terminal status.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reconcileBatchesHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Reconciliation derives batch completion from order state on every run, so
// a failed run is harmless; the next run settles whatever the failed one
// missed. Errors are logged and the schedule continues.
package jobs
