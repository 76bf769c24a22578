package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetProcessingLogQueryIsNotConstructed = errors.New(
		"GetProcessingLogQuery must be created via NewGetProcessingLogQuery constructor",
	)
)

// GetProcessingLogQuery retrieves the audit trail of one order, oldest entry
// first.
//
// Example:
//
//	query, err := NewGetProcessingLogQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetProcessingLogQueryHandler(db)
//	entries, err := handler.Handle(ctx, query)
type GetProcessingLogQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetProcessingLogQuery creates a query for one order's audit trail.
func NewGetProcessingLogQuery(orderID kernel.UUID) (GetProcessingLogQuery, error) {
	logQuery := GetProcessingLogQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := logQuery.setOrderID(orderID); err != nil {
		return GetProcessingLogQuery{}, err
	}

	return logQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetProcessingLogQueryIsNotConstructed if validation fails.
func (q GetProcessingLogQuery) Validate() error {
	return q.guard.Validate(ErrGetProcessingLogQueryIsNotConstructed)
}

// OrderID returns the identifier of the audited order.
func (q GetProcessingLogQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetProcessingLogQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// ProcessingLogEntryResponse is the read model of one audit record.
type ProcessingLogEntryResponse struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	Stage        string
	Success      bool
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}
