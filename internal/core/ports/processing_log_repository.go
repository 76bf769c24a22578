package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/processing"
)

// ProcessingLogRepository defines the persistence contract for the append-only
// audit trail of pipeline stage attempts.
type ProcessingLogRepository interface {
	// Add appends one stage attempt record. Entries are immutable once
	// written; there is no update or delete.
	Add(ctx context.Context, entry *processing.Entry) error

	// GetByOrder retrieves all entries recorded for an order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*processing.Entry, error)
}
