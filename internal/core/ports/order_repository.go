package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage. Inserting an order
	// whose identifier already exists is a no-op, so a replayed ingestion
	// never duplicates rows.
	Add(ctx context.Context, aggregate *order.Order) error

	// AddAll persists a set of new order aggregates in one round trip.
	// Conflicting identifiers are skipped the same way Add skips them.
	AddAll(ctx context.Context, aggregates []*order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByBatch retrieves the orders of one batch, oldest first, optionally
	// filtered by status. A non-positive limit applies no cap.
	GetByBatch(ctx context.Context, batchID kernel.UUID, status *order.Status, limit int) ([]*order.Order, error)

	// CountNonTerminalByBatch counts the batch's orders that have not yet
	// reached Completed or Failed. A zero count means the batch is settled.
	CountNonTerminalByBatch(ctx context.Context, batchID kernel.UUID) (int64, error)
}
