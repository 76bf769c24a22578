package commands

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/processing"
	"orderflow/internal/core/ports"
)

// StageRecorder appends audit records of pipeline stage attempts.
// Recording is best effort: the audit trail must never decide the fate of an
// order, so implementations report persistence problems out of band instead
// of returning them.
type StageRecorder interface {
	Record(
		ctx context.Context,
		orderID kernel.UUID,
		stage processing.Stage,
		success bool,
		metadata map[string]any,
		errorMessage string,
	)
}

// ProcessingLogRecorder writes audit entries through the processing log
// repository outside the pipeline's transactions. Failed writes are logged
// and swallowed.
type ProcessingLogRecorder struct {
	repo   ports.ProcessingLogRepository
	logger *slog.Logger
}

// NewProcessingLogRecorder creates a recorder over the given repository.
func NewProcessingLogRecorder(repo ports.ProcessingLogRepository, logger *slog.Logger) *ProcessingLogRecorder {
	return &ProcessingLogRecorder{
		repo:   repo,
		logger: logger.With(slog.String("component", "processing_log_recorder")),
	}
}

// Record appends one stage attempt to the audit trail.
func (r *ProcessingLogRecorder) Record(
	ctx context.Context,
	orderID kernel.UUID,
	stage processing.Stage,
	success bool,
	metadata map[string]any,
	errorMessage string,
) {
	entry, err := processing.NewEntry(kernel.NewUUID(), orderID, stage, success, metadata, errorMessage)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to build processing log entry",
			slog.String("order_id", orderID.String()),
			slog.String("stage", stage.String()),
			slog.Any("error", err))
		return
	}

	if err = r.repo.Add(ctx, entry); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist processing log entry",
			slog.String("order_id", orderID.String()),
			slog.String("stage", stage.String()),
			slog.Any("error", err))
	}
}
