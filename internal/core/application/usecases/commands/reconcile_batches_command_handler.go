package commands

import (
	"context"
)

// ReconcileBatchesCommandHandler settles batches in Processing status.
// A batch completes when none of its orders remain in a non-terminal status.
// All updates occur within a single transaction.
type ReconcileBatchesCommandHandler struct {
	uowFactory UoWFactory
}

// NewReconcileBatchesCommandHandler creates a handler for batch settlement.
// Requires a UoWFactory for coordinating reads across batch and order
// repositories.
func NewReconcileBatchesCommandHandler(uowFactory UoWFactory) ReconcileBatchesCommandHandler {
	return ReconcileBatchesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the reconciliation command.
// Retrieves all batches in Processing status, counts each batch's unfinished
// orders, and completes batches whose count is zero.
func (h *ReconcileBatchesCommandHandler) Handle(ctx context.Context, cmd ReconcileBatchesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	orderRepo := uow.OrderRepository()

	batches, err := batchRepo.GetAllInProcessingStatus(ctx)
	if err != nil {
		return err
	}

	for _, processingBatch := range batches {
		remaining, countErr := orderRepo.CountNonTerminalByBatch(ctx, processingBatch.ID())
		if countErr != nil {
			return countErr
		}

		if remaining > 0 {
			continue
		}

		if err = processingBatch.Complete(); err != nil {
			return err
		}

		if err = batchRepo.Update(ctx, processingBatch); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
