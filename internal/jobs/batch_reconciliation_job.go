package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"orderflow/internal/core/application/usecases/commands"
)

// BatchReconciliationJob manages the scheduled settlement of batches.
// Runs every five seconds to complete batches whose orders are all terminal.
type BatchReconciliationJob struct {
	handler commands.ReconcileBatchesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewBatchReconciliationJob creates a new job for settling batches.
// Uses ReconcileBatchesCommandHandler to derive batch completion from order
// state.
func NewBatchReconciliationJob(
	handler commands.ReconcileBatchesCommandHandler,
	logger *slog.Logger,
) *BatchReconciliationJob {
	return &BatchReconciliationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "batch_reconciliation_job"),
	}
}

// Start begins the batch reconciliation job to run every five seconds.
func (j *BatchReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewReconcileBatchesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Batch reconciliation job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Batch reconciliation job started (running every five seconds)")
	return nil
}

// Stop stops the batch reconciliation job.
func (j *BatchReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Batch reconciliation job stopped")
}
