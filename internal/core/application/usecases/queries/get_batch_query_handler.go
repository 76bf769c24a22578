package queries

import (
	"context"

	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/batch"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// GetBatchQueryHandler retrieves one batch and its order status breakdown
// from the database.
//
// Example:
//
//	handler := NewGetBatchQueryHandler(db)
//	query, _ := NewGetBatchQuery(batchID, false)
//
//	batchResp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get batch: %w", err)
//	}
type GetBatchQueryHandler struct {
	db *gorm.DB
}

// NewGetBatchQueryHandler creates a handler for batch detail queries.
// Requires a GORM database connection for query execution.
func NewGetBatchQueryHandler(db *gorm.DB) GetBatchQueryHandler {
	return GetBatchQueryHandler{db: db}
}

// Handle executes the batch detail query.
// Returns an ObjectNotFoundError when no batch with the given identifier
// exists.
func (h GetBatchQueryHandler) Handle(ctx context.Context, query GetBatchQuery) (GetBatchQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBatchQueryResponse{}, err
	}

	response, err := h.loadBatch(ctx, query.BatchID())
	if err != nil {
		return GetBatchQueryResponse{}, err
	}

	if err = h.loadStatusCounts(ctx, query.BatchID(), &response); err != nil {
		return GetBatchQueryResponse{}, err
	}

	if query.WithOrders() {
		orders, ordersErr := listOrders(ctx, h.db, query.BatchID(), nil, 0)
		if ordersErr != nil {
			return GetBatchQueryResponse{}, ordersErr
		}
		response.Orders = orders
	}

	return response, nil
}

func (h GetBatchQueryHandler) loadBatch(ctx context.Context, batchID kernel.UUID) (GetBatchQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			filename,
			total_orders,
			status,
			created_at
		FROM batches
		WHERE id = ?
	`, batchID.Bytes()).Rows()
	if err != nil {
		return GetBatchQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetBatchQueryResponse{}, err
		}
		return GetBatchQueryResponse{}, errs.NewObjectNotFoundError("batch", batchID.String())
	}

	var (
		response    GetBatchQueryResponse
		statusValue int
	)

	err = rows.Scan(
		&response.Filename,
		&response.TotalOrders,
		&statusValue,
		&response.CreatedAt,
	)
	if err != nil {
		return GetBatchQueryResponse{}, err
	}

	response.ID = batchID
	response.Status = batch.Status(statusValue).String()
	return response, nil
}

func (h GetBatchQueryHandler) loadStatusCounts(
	ctx context.Context,
	batchID kernel.UUID,
	response *GetBatchQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*)
		FROM orders
		WHERE batch_id = ?
		GROUP BY status
	`, batchID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			statusValue int
			count       int
		)
		if err = rows.Scan(&statusValue, &count); err != nil {
			return err
		}

		switch order.Status(statusValue) {
		case order.Pending:
			response.PendingOrders = count
		case order.Processing:
			response.InFlightOrders = count
		case order.Completed:
			response.CompletedOrders = count
		case order.Failed:
			response.FailedOrders = count
		case order.Unknown:
		}
	}

	return rows.Err()
}
