package services

import (
	"context"
	"math/rand/v2"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
)

// InventoryChecker simulates a stock lookup. Availability fails with the
// configured probability, standing in for a real warehouse system.
type InventoryChecker struct {
	ref   ReferenceData
	delay DelayFunc
}

// NewInventoryChecker creates the inventory check stage.
func NewInventoryChecker(ref ReferenceData, delay DelayFunc) *InventoryChecker {
	return &InventoryChecker{ref: ref, delay: delay}
}

// Stage returns the audit label of this evaluator.
func (c *InventoryChecker) Stage() processing.Stage {
	return processing.StageInventoryCheck
}

// Evaluate checks availability for the requested quantity.
func (c *InventoryChecker) Evaluate(ctx context.Context, o *order.Order) (map[string]any, error) {
	c.delay(ctx)

	if rand.Float64() < c.ref.InventoryFailureProbability {
		return map[string]any{"requestedQuantity": o.Quantity()},
			NewStageError(c.Stage(), "Insufficient inventory")
	}

	return map[string]any{
		"requestedQuantity": o.Quantity(),
		"status":            "available",
	}, nil
}
