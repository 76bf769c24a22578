package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
)

// AddressValidator resolves an order's city against the known coordinate
// table. On success it yields a geocoordinate perturbed by a small bounded
// jitter around the reference point, standing in for a real geocoder.
type AddressValidator struct {
	ref   ReferenceData
	delay DelayFunc
}

// NewAddressValidator creates the address validation stage.
func NewAddressValidator(ref ReferenceData, delay DelayFunc) *AddressValidator {
	return &AddressValidator{ref: ref, delay: delay}
}

// Stage returns the audit label of this evaluator.
func (v *AddressValidator) Stage() processing.Stage {
	return processing.StageAddressValidation
}

// Evaluate validates the order's city. An unknown city is a business failure
// with reason "Invalid city: {city}".
func (v *AddressValidator) Evaluate(ctx context.Context, o *order.Order) (map[string]any, error) {
	v.delay(ctx)

	reference, ok := v.ref.CityCoordinates[o.City()]
	if !ok {
		return map[string]any{"city": o.City()},
			NewStageError(v.Stage(), fmt.Sprintf("Invalid city: %s", o.City()))
	}

	validated, err := reference.Shift(
		(rand.Float64()-0.5)*v.ref.CoordinateJitter,
		(rand.Float64()-0.5)*v.ref.CoordinateJitter,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"city": o.City(),
		"originalCoordinates": map[string]any{
			"lat": reference.Lat(),
			"lng": reference.Lng(),
		},
		"validatedCoordinates": map[string]any{
			"lat": validated.Lat(),
			"lng": validated.Lng(),
		},
	}, nil
}
