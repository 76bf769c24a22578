// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by batch, status, and destination city.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID       uuid.UUID `gorm:"type:uuid;index"`
	OrderNumber   string
	CustomerEmail string
	ProductSKU    string
	Quantity      int
	Address       string
	City          string `gorm:"index"`
	Status        int    `gorm:"index"`
	ErrorReason   *string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var errorReason *string
	if reason := aggregate.ErrorReason(); reason != "" {
		errorReason = &reason
	}

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		BatchID:       aggregate.BatchID().Bytes(),
		OrderNumber:   aggregate.OrderNumber(),
		CustomerEmail: aggregate.CustomerEmail(),
		ProductSKU:    aggregate.ProductSKU(),
		Quantity:      aggregate.Quantity(),
		Address:       aggregate.Address(),
		City:          aggregate.City(),
		Status:        int(aggregate.Status()),
		ErrorReason:   errorReason,
		CreatedAt:     aggregate.CreatedAt(),
		ProcessedAt:   aggregate.ProcessedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and failure reason
// using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	batchID, err := kernel.UUIDFromBytes(dto.BatchID[:])
	if err != nil {
		return nil, err
	}

	var errorReason string
	if dto.ErrorReason != nil {
		errorReason = *dto.ErrorReason
	}

	return order.RestoreOrder(
		id,
		batchID,
		dto.OrderNumber,
		dto.CustomerEmail,
		dto.ProductSKU,
		dto.Quantity,
		dto.Address,
		dto.City,
		order.Status(dto.Status),
		errorReason,
		dto.CreatedAt,
		dto.ProcessedAt,
	)
}
