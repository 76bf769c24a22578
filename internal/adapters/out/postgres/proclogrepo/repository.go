package proclogrepo

import (
	"context"

	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/processing"
)

// GormProcessingLogRepository implements ProcessingLogRepository using GORM.
// It runs on the main database connection rather than inside the pipeline's
// transactions; an audit write must not extend or abort a business
// transaction.
type GormProcessingLogRepository struct {
	db *gorm.DB
}

// NewGormProcessingLogRepository creates a new GORM processing log repository.
func NewGormProcessingLogRepository(db *gorm.DB) *GormProcessingLogRepository {
	return &GormProcessingLogRepository{db: db}
}

// Add appends one audit entry.
func (r *GormProcessingLogRepository) Add(ctx context.Context, entry *processing.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByOrder retrieves all audit entries of one order in recording order.
func (r *GormProcessingLogRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*processing.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*processing.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := toDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
