package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

// DefaultOrdersLimit caps order listings when the caller does not request an
// explicit page size.
const DefaultOrdersLimit = 20

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery retrieves the orders of one batch, oldest first, optionally
// filtered by status.
//
// Example:
//
//	failed := order.Failed
//	query, err := NewGetOrdersQuery(batchID, &failed, 50)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetOrdersQueryHandler(db)
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct { //nolint:recvcheck //using for validation
	batchID kernel.UUID
	status  *order.Status
	limit   int

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates an order listing query. A nil status applies no
// status filter; a non-positive limit falls back to DefaultOrdersLimit.
func NewGetOrdersQuery(batchID kernel.UUID, status *order.Status, limit int) (GetOrdersQuery, error) {
	ordersQuery := GetOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}

	if ordersQuery.limit <= 0 {
		ordersQuery.limit = DefaultOrdersLimit
	}

	if err := errors.Join(
		ordersQuery.setBatchID(batchID),
		ordersQuery.setStatus(status),
	); err != nil {
		return GetOrdersQuery{}, err
	}

	return ordersQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersQueryIsNotConstructed if validation fails.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// BatchID returns the identifier of the batch whose orders are listed.
func (q GetOrdersQuery) BatchID() kernel.UUID {
	return q.batchID
}

// Status returns the optional status filter, nil when unfiltered.
func (q GetOrdersQuery) Status() *order.Status {
	return q.status
}

// Limit returns the maximum number of orders to return.
func (q GetOrdersQuery) Limit() int {
	return q.limit
}

func (q *GetOrdersQuery) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	q.batchID = batchID
	return nil
}

func (q *GetOrdersQuery) setStatus(status *order.Status) error {
	if status != nil {
		if err := status.Validate(); err != nil {
			return err
		}
	}

	q.status = status
	return nil
}

// OrderResponse is the read model of one order.
type OrderResponse struct {
	ID            kernel.UUID
	BatchID       kernel.UUID
	OrderNumber   string
	CustomerEmail string
	ProductSKU    string
	Quantity      int
	Address       string
	City          string
	Status        string
	ErrorReason   string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}
