package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
	"orderflow/internal/core/domain/services"
)

// ProcessOrderCommandHandler runs the fixed stage sequence for one order.
// Each stage attempt is recorded in the audit trail; the first business
// failure settles the order as Failed, and a full pass settles it as
// Completed.
//
// The handler is idempotent with respect to queue redelivery: an order found
// already in a terminal status is skipped without touching it or the audit
// trail, and an order stranded in Processing by a crashed worker is resumed
// from the start of the stage sequence.
//
// Example:
//
//	handler := NewProcessOrderCommandHandler(uowFactory, evaluators, recorder, logger)
//	cmd, _ := NewProcessOrderCommand(orderID)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    // infrastructure fault: the message should be dead-lettered
//	}
type ProcessOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	evaluators []services.StageEvaluator
	recorder   StageRecorder
	logger     *slog.Logger
}

// NewProcessOrderCommandHandler creates a handler for pipeline processing.
// The evaluators run in the given order for every order.
func NewProcessOrderCommandHandler(
	uowFactory OrderUoWFactory,
	evaluators []services.StageEvaluator,
	recorder StageRecorder,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		uowFactory: uowFactory,
		evaluators: evaluators,
		recorder:   recorder,
		logger:     logger.With(slog.String("component", "order_pipeline")),
	}
}

// Handle processes one order through all pipeline stages.
// A *services.StageError from a stage is a business outcome: the order is
// settled as Failed and Handle returns nil. Any other error is an
// infrastructure fault and is returned so the transport can dead-letter the
// message without settling the order.
func (h *ProcessOrderCommandHandler) Handle(ctx context.Context, cmd ProcessOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pipelineOrder, skip, err := h.claimOrder(ctx, cmd)
	if err != nil || skip {
		return err
	}

	for _, evaluator := range h.evaluators {
		metadata, evalErr := evaluator.Evaluate(ctx, pipelineOrder)

		var stageErr *services.StageError
		if errors.As(evalErr, &stageErr) {
			h.recorder.Record(ctx, pipelineOrder.ID(), evaluator.Stage(), false, metadata, stageErr.Reason())
			return h.settleFailed(ctx, pipelineOrder, stageErr.Reason())
		}

		if evalErr != nil {
			return evalErr
		}

		h.recorder.Record(ctx, pipelineOrder.ID(), evaluator.Stage(), true, metadata, "")
	}

	return h.settleCompleted(ctx, pipelineOrder)
}

// claimOrder loads the order and transitions it to Processing. An order
// already in a terminal status is reported as skip; the queue message that
// carried it is stale. An order already in Processing is returned unchanged
// so a redelivered message can rerun the stages.
func (h *ProcessOrderCommandHandler) claimOrder(
	ctx context.Context,
	cmd ProcessOrderCommand,
) (*order.Order, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	claimedOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, false, err
	}

	if claimedOrder.Status().IsTerminal() {
		h.logger.InfoContext(ctx, "skipping redelivered order in terminal status",
			slog.String("order_id", claimedOrder.ID().String()),
			slog.String("status", claimedOrder.Status().String()))
		return nil, true, nil
	}

	// An order left in Processing by a crashed worker is resumed as-is when
	// the broker redelivers its message.
	if claimedOrder.Status() == order.Processing {
		h.logger.InfoContext(ctx, "resuming redelivered order in processing status",
			slog.String("order_id", claimedOrder.ID().String()))
		return claimedOrder, false, nil
	}

	if err = claimedOrder.StartProcessing(); err != nil {
		return nil, false, err
	}

	if err = orderRepo.Update(ctx, claimedOrder); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return claimedOrder, false, nil
}

func (h *ProcessOrderCommandHandler) settleFailed(ctx context.Context, pipelineOrder *order.Order, reason string) error {
	if err := pipelineOrder.Fail(reason); err != nil {
		return err
	}

	if err := h.saveOrder(ctx, pipelineOrder); err != nil {
		return err
	}

	h.recorder.Record(ctx, pipelineOrder.ID(), processing.StageFailed, false, nil, reason)
	return nil
}

func (h *ProcessOrderCommandHandler) settleCompleted(ctx context.Context, pipelineOrder *order.Order) error {
	if err := pipelineOrder.Complete(); err != nil {
		return err
	}

	if err := h.saveOrder(ctx, pipelineOrder); err != nil {
		return err
	}

	h.recorder.Record(ctx, pipelineOrder.ID(), processing.StageCompleted, true, nil, "")
	return nil
}

func (h *ProcessOrderCommandHandler) saveOrder(ctx context.Context, pipelineOrder *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, pipelineOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
