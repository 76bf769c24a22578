package queries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// GetOrdersQueryHandler lists the orders of a batch from the database.
//
// Example:
//
//	handler := NewGetOrdersQueryHandler(db)
//	query, _ := NewGetOrdersQuery(batchID, nil, 50)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the order listing query.
// Results are sorted by creation time so pages are stable across calls.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return listOrders(ctx, h.db, query.BatchID(), query.Status(), query.Limit())
}

// listOrders is the shared order projection used by the listing and batch
// detail queries. A nil status applies no filter; a non-positive limit
// applies no cap.
func listOrders(
	ctx context.Context,
	db *gorm.DB,
	batchID kernel.UUID,
	status *order.Status,
	limit int,
) ([]OrderResponse, error) {
	querySQL := `
		SELECT
			id,
			batch_id,
			order_number,
			customer_email,
			product_sku,
			quantity,
			address,
			city,
			status,
			error_reason,
			created_at,
			processed_at
		FROM orders
		WHERE batch_id = ?
	`
	args := []any{batchID.Bytes()}

	if status != nil {
		querySQL += " AND status = ?"
		args = append(args, int(*status))
	}

	querySQL += " ORDER BY created_at, id"

	if limit > 0 {
		querySQL += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.WithContext(ctx).Raw(querySQL, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderResponse, 0)
	for rows.Next() {
		orderResp, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func scanOrderRow(rows *sql.Rows) (OrderResponse, error) {
	var (
		orderResp   OrderResponse
		id          uuid.UUID
		batchID     uuid.UUID
		statusValue int
		errorReason sql.NullString
		processedAt sql.NullTime
	)

	err := rows.Scan(
		&id,
		&batchID,
		&orderResp.OrderNumber,
		&orderResp.CustomerEmail,
		&orderResp.ProductSKU,
		&orderResp.Quantity,
		&orderResp.Address,
		&orderResp.City,
		&statusValue,
		&errorReason,
		&orderResp.CreatedAt,
		&processedAt,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderResponse{}, err
	}
	orderResp.ID = orderID

	orderBatchID, err := kernel.UUIDFromBytes(batchID[:])
	if err != nil {
		return OrderResponse{}, err
	}
	orderResp.BatchID = orderBatchID

	orderResp.Status = order.Status(statusValue).String()
	orderResp.ErrorReason = errorReason.String
	if processedAt.Valid {
		t := processedAt.Time
		orderResp.ProcessedAt = &t
	}

	return orderResp, nil
}
