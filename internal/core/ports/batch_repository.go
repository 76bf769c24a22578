// Package ports defines the contracts between the application core and
// infrastructure adapters. Repositories cover persistence of the aggregates,
// the queue interfaces cover message transport; both sides depend on these
// interfaces rather than on each other.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/batch"
	"orderflow/internal/core/domain/model/kernel"
)

// BatchRepository defines the persistence contract for batch aggregates.
type BatchRepository interface {
	// Add persists a new batch aggregate to storage.
	// The batch must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *batch.Batch) error

	// Update persists changes to an existing batch aggregate.
	Update(ctx context.Context, aggregate *batch.Batch) error

	// Get retrieves a batch aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetAllInProcessingStatus retrieves all batches still in Processing
	// status. Used by reconciliation to find batches awaiting settlement.
	GetAllInProcessingStatus(ctx context.Context) ([]*batch.Batch, error)
}
