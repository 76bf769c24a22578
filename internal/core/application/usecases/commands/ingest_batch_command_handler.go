package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"orderflow/internal/core/domain/model/batch"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// publishConcurrency caps the number of in-flight queue publishes during
// ingestion of one batch.
const publishConcurrency = 8

// csvColumns are the required header columns of an upload, in any order.
var csvColumns = []string{"order_id", "customer_email", "product_sku", "quantity", "address", "city"}

// IngestBatchCommandHandler handles the ingestion of one uploaded CSV file.
// It parses the stream row by row, persists the batch together with its valid
// orders in one transaction, then fans the orders out to the processing queue.
//
// Malformed rows are skipped and logged; they never abort the upload. A
// failure of the stream itself aborts ingestion and leaves a Failed batch
// behind so the upload is visible in status queries.
type IngestBatchCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.MessagePublisher
	logger     *slog.Logger
}

// NewIngestBatchCommandHandler creates a handler for batch ingestion.
// Requires a UoWFactory for transactional persistence of the batch and its
// orders, and a MessagePublisher for queue fan-out.
func NewIngestBatchCommandHandler(
	uowFactory UoWFactory,
	publisher ports.MessagePublisher,
	logger *slog.Logger,
) IngestBatchCommandHandler {
	return IngestBatchCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With(slog.String("component", "batch_ingestion")),
	}
}

// Handle processes the batch ingestion command.
// Parses the CSV stream, persists batch and orders atomically, publishes one
// queue message per order, and moves the batch to Processing. Orders whose
// publish fails are marked Failed individually; they do not abort the rest of
// the batch.
func (h *IngestBatchCommandHandler) Handle(ctx context.Context, cmd IngestBatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orders, err := h.parseOrders(ctx, cmd)
	if err != nil {
		return errors.Join(
			fmt.Errorf("failed to read upload %q: %w", cmd.Filename(), err),
			h.persistFailedBatch(ctx, cmd),
		)
	}

	ingestedBatch, err := batch.NewBatch(cmd.BatchID(), cmd.Filename(), len(orders))
	if err != nil {
		return err
	}

	if err = h.persistBatch(ctx, ingestedBatch, orders); err != nil {
		return err
	}

	failures := h.publishOrders(ctx, orders)

	return h.finalizeBatch(ctx, ingestedBatch, failures)
}

// parseOrders consumes the CSV stream. Row-local problems (malformed CSV
// rows, invalid field values) skip the row; any other read error aborts the
// stream and is returned.
func (h *IngestBatchCommandHandler) parseOrders(
	ctx context.Context,
	cmd IngestBatchCommand,
) ([]*order.Order, error) {
	reader := csv.NewReader(cmd.Data())
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var orders []*order.Order
	for line := 2; ; line++ {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				h.logRowSkipped(ctx, cmd.Filename(), line, readErr)
				continue
			}
			return nil, readErr
		}

		rowOrder, rowErr := h.buildOrder(cmd.BatchID(), columns, row)
		if rowErr != nil {
			h.logRowSkipped(ctx, cmd.Filename(), line, rowErr)
			continue
		}

		orders = append(orders, rowOrder)
	}

	return orders, nil
}

func (h *IngestBatchCommandHandler) buildOrder(
	batchID kernel.UUID,
	columns map[string]int,
	row []string,
) (*order.Order, error) {
	quantity, err := strconv.Atoi(row[columns["quantity"]])
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}

	return order.NewOrder(
		kernel.NewUUID(),
		batchID,
		row[columns["order_id"]],
		row[columns["customer_email"]],
		row[columns["product_sku"]],
		quantity,
		row[columns["address"]],
		row[columns["city"]],
	)
}

// persistBatch stores the Pending batch and all its orders in one
// transaction. Either the whole upload becomes visible or none of it does.
func (h *IngestBatchCommandHandler) persistBatch(
	ctx context.Context,
	ingestedBatch *batch.Batch,
	orders []*order.Order,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.BatchRepository().Add(ctx, ingestedBatch); err != nil {
		return err
	}

	if err := uow.OrderRepository().AddAll(ctx, orders); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// persistFailedBatch records an upload whose stream could not be read.
func (h *IngestBatchCommandHandler) persistFailedBatch(ctx context.Context, cmd IngestBatchCommand) error {
	failedBatch, err := batch.NewBatch(cmd.BatchID(), cmd.Filename(), 0)
	if err != nil {
		return err
	}

	if err = failedBatch.Fail(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.BatchRepository().Add(ctx, failedBatch); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type publishFailure struct {
	order *order.Order
	err   error
}

// publishOrders fans the orders out to the processing queue with bounded
// concurrency. Publish failures are collected per order, never propagated;
// one unreachable publish must not abort the remaining orders.
func (h *IngestBatchCommandHandler) publishOrders(ctx context.Context, orders []*order.Order) []publishFailure {
	var (
		mu       sync.Mutex
		failures []publishFailure
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(publishConcurrency)

	for _, o := range orders {
		group.Go(func() error {
			if err := h.publishOrder(groupCtx, o); err != nil {
				h.logger.ErrorContext(groupCtx, "failed to publish order",
					slog.String("order_id", o.ID().String()),
					slog.Any("error", err))

				mu.Lock()
				failures = append(failures, publishFailure{order: o, err: err})
				mu.Unlock()
			}
			return nil
		})
	}

	_ = group.Wait()
	return failures
}

func (h *IngestBatchCommandHandler) publishOrder(ctx context.Context, o *order.Order) error {
	body, err := json.Marshal(ports.OrderMessage{
		ID:            o.ID().String(),
		BatchID:       o.BatchID().String(),
		OrderNumber:   o.OrderNumber(),
		CustomerEmail: o.CustomerEmail(),
		ProductSKU:    o.ProductSKU(),
		Quantity:      o.Quantity(),
		Address:       o.Address(),
		City:          o.City(),
		Status:        o.Status().String(),
	})
	if err != nil {
		return err
	}

	return h.publisher.Publish(ctx, ports.OrderProcessingQueue, body)
}

// finalizeBatch marks unpublishable orders as Failed and moves the batch to
// Processing in one transaction.
func (h *IngestBatchCommandHandler) finalizeBatch(
	ctx context.Context,
	ingestedBatch *batch.Batch,
	failures []publishFailure,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	for _, failure := range failures {
		if err := failure.order.Fail(fmt.Sprintf("failed to enqueue: %s", failure.err)); err != nil {
			return err
		}

		if err := orderRepo.Update(ctx, failure.order); err != nil {
			return err
		}
	}

	if err := ingestedBatch.StartProcessing(); err != nil {
		return err
	}

	if err := uow.BatchRepository().Update(ctx, ingestedBatch); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *IngestBatchCommandHandler) logRowSkipped(ctx context.Context, filename string, line int, err error) {
	h.logger.WarnContext(ctx, "skipping malformed row",
		slog.String("filename", filename),
		slog.Int("line", line),
		slog.Any("error", err))
}

// mapColumns resolves the position of every required column in the header.
func mapColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}

	for _, name := range csvColumns {
		if _, ok := positions[name]; !ok {
			return nil, errs.NewValueIsRequiredError(fmt.Sprintf("column %q", name))
		}
	}

	return positions, nil
}
