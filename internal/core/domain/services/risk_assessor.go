package services

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
)

// RiskAssessor is the final gate of the pipeline. Orders above the quantity
// threshold are rejected outright; high order value and high-risk destination
// cities are recorded as non-fatal risk factors.
type RiskAssessor struct {
	ref   ReferenceData
	delay DelayFunc
}

// NewRiskAssessor creates the risk assessment stage.
func NewRiskAssessor(ref ReferenceData, delay DelayFunc) *RiskAssessor {
	return &RiskAssessor{ref: ref, delay: delay}
}

// Stage returns the audit label of this evaluator.
func (a *RiskAssessor) Stage() processing.Stage {
	return processing.StageRiskAssessment
}

// Evaluate scores the order. Quantity above the threshold is a business
// failure with reason "High risk order detected".
func (a *RiskAssessor) Evaluate(ctx context.Context, o *order.Order) (map[string]any, error) {
	a.delay(ctx)

	if o.Quantity() > a.ref.RiskQuantityThreshold {
		return map[string]any{"quantity": o.Quantity()},
			NewStageError(a.Stage(), "High risk order detected")
	}

	factors := make([]string, 0, 2)
	if float64(o.Quantity())*a.ref.UnitValue > a.ref.HighValueThreshold {
		factors = append(factors, "High value order")
	}
	if _, ok := a.ref.HighRiskCities[o.City()]; ok {
		factors = append(factors, "High risk city")
	}

	level := "low"
	if len(factors) > 0 {
		level = "elevated"
	}

	return map[string]any{
		"riskLevel":   level,
		"riskFactors": factors,
	}, nil
}
