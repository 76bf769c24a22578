// Package batchrepo provides data transfer objects and mapping functions for
// batch persistence. Implements the repository pattern for the batch domain
// aggregate, handling the conversion between domain entities and database
// representations.
package batchrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/batch"
	"orderflow/internal/core/domain/model/kernel"
)

// BatchDTO represents the database structure for persisting batch aggregates.
type BatchDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename    string
	TotalOrders int
	Status      int `gorm:"index"`
	CreatedAt   time.Time
}

// TableName specifies the database table name for batch entities.
// Overrides GORM's default naming convention to use "batches".
func (BatchDTO) TableName() string {
	return "batches"
}

// fromDomain converts a batch domain aggregate to its database representation.
func fromDomain(aggregate *batch.Batch) BatchDTO {
	return BatchDTO{
		ID:          aggregate.ID().Bytes(),
		Filename:    aggregate.Filename(),
		TotalOrders: aggregate.TotalOrders(),
		Status:      int(aggregate.Status()),
		CreatedAt:   aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a batch domain aggregate using
// RestoreBatch.
func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return batch.RestoreBatch(id, dto.Filename, dto.TotalOrders, batch.Status(dto.Status), dto.CreatedAt)
}
