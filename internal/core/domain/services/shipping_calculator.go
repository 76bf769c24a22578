package services

import (
	"context"
	"math/rand/v2"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
)

// ShippingCalculator prices shipping for an order. The cost is linear in
// quantity with a premium multiplier for selected cities. The stage never
// fails for business reasons.
type ShippingCalculator struct {
	ref   ReferenceData
	delay DelayFunc
}

// NewShippingCalculator creates the shipping calculation stage.
func NewShippingCalculator(ref ReferenceData, delay DelayFunc) *ShippingCalculator {
	return &ShippingCalculator{ref: ref, delay: delay}
}

// Stage returns the audit label of this evaluator.
func (c *ShippingCalculator) Stage() processing.Stage {
	return processing.StageShippingCalculation
}

// Evaluate computes cost, carrier and delivery estimate for the order.
func (c *ShippingCalculator) Evaluate(ctx context.Context, o *order.Order) (map[string]any, error) {
	c.delay(ctx)

	cost := c.ref.BaseShippingCost + c.ref.CostPerItem*float64(o.Quantity())
	_, premium := c.ref.PremiumCities[o.City()]
	if premium {
		cost *= c.ref.PremiumRate
	}

	days := c.ref.MinEstimatedDays
	if span := c.ref.MaxEstimatedDays - c.ref.MinEstimatedDays; span > 0 {
		days += rand.IntN(span + 1)
	}

	return map[string]any{
		"shippingCost":   cost,
		"carrier":        c.ref.Carriers[rand.IntN(len(c.ref.Carriers))],
		"estimatedDays":  days,
		"premiumApplied": premium,
	}, nil
}
