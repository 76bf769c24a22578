// Package queries contains read-only operations over the persistence model.
// Implements the Query side of the CQRS architecture: handlers read
// projections directly from the database, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetBatchQueryIsNotConstructed = errors.New(
		"GetBatchQuery must be created via NewGetBatchQuery constructor",
	)
)

// GetBatchQuery retrieves one batch with its order status breakdown.
//
// Example:
//
//	query, err := NewGetBatchQuery(batchID, true)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetBatchQueryHandler(db)
//	batch, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get batch: %w", err)
//	}
//	fmt.Printf("%s: %d/%d orders settled\n",
//	    batch.Filename, batch.CompletedOrders+batch.FailedOrders, batch.TotalOrders)
type GetBatchQuery struct { //nolint:recvcheck //using for validation
	batchID    kernel.UUID
	withOrders bool

	guard guard.ConstructorGuard
}

// NewGetBatchQuery creates a query for one batch. When withOrders is true the
// response includes the batch's orders.
func NewGetBatchQuery(batchID kernel.UUID, withOrders bool) (GetBatchQuery, error) {
	batchQuery := GetBatchQuery{
		withOrders: withOrders,
		guard:      guard.NewConstructorGuard(),
	}

	if err := batchQuery.setBatchID(batchID); err != nil {
		return GetBatchQuery{}, err
	}

	return batchQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetBatchQueryIsNotConstructed if validation fails.
func (q GetBatchQuery) Validate() error {
	return q.guard.Validate(ErrGetBatchQueryIsNotConstructed)
}

// BatchID returns the identifier of the requested batch.
func (q GetBatchQuery) BatchID() kernel.UUID {
	return q.batchID
}

// WithOrders reports whether the response should include the batch's orders.
func (q GetBatchQuery) WithOrders() bool {
	return q.withOrders
}

func (q *GetBatchQuery) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	q.batchID = batchID
	return nil
}

// GetBatchQueryResponse is the read model of one batch. The per-status counts
// are derived from the orders table at query time; they are the authoritative
// progress numbers regardless of consumer crashes or redeliveries.
type GetBatchQueryResponse struct {
	ID              kernel.UUID
	Filename        string
	TotalOrders     int
	Status          string
	CreatedAt       time.Time
	PendingOrders   int
	InFlightOrders  int
	CompletedOrders int
	FailedOrders    int
	Orders          []OrderResponse
}
