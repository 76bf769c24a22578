package services

import "orderflow/internal/core/domain/model/kernel"

// ReferenceData is the immutable configuration injected into the stage
// evaluators. It replaces what used to be module-level mutable tables, so
// tests can supply alternate tables without touching global state.
// Construct a fresh copy per pipeline; evaluators never mutate it.
type ReferenceData struct {
	// CityCoordinates maps known city names to their reference coordinates.
	// Address validation fails for any city absent from this table.
	CityCoordinates map[string]kernel.GeoPoint

	// CoordinateJitter is the total spread, in degrees, of the random
	// perturbation applied around a reference coordinate (about 1 km).
	CoordinateJitter float64

	// InventoryFailureProbability is the chance in [0,1] that the inventory
	// check reports insufficient stock.
	InventoryFailureProbability float64

	// BaseShippingCost and CostPerItem define the linear shipping price.
	BaseShippingCost float64
	CostPerItem      float64

	// PremiumCities incur PremiumRate on the shipping cost.
	PremiumCities map[string]struct{}
	PremiumRate   float64

	// Carriers is the fixed carrier set shipping picks from.
	Carriers []string

	// MinEstimatedDays and MaxEstimatedDays bound the delivery estimate.
	MinEstimatedDays int
	MaxEstimatedDays int

	// RiskQuantityThreshold is the quantity above which an order is
	// rejected as high risk.
	RiskQuantityThreshold int

	// UnitValue prices one item for risk scoring; orders worth more than
	// HighValueThreshold gain a non-fatal risk factor.
	UnitValue          float64
	HighValueThreshold float64

	// HighRiskCities gain a non-fatal risk factor.
	HighRiskCities map[string]struct{}
}

// DefaultReferenceData returns the production reference tables.
func DefaultReferenceData() ReferenceData {
	return ReferenceData{
		CityCoordinates: map[string]kernel.GeoPoint{
			"New York":    mustGeoPoint(40.7128, -74.0060),
			"Los Angeles": mustGeoPoint(34.0522, -118.2437),
			"Chicago":     mustGeoPoint(41.8781, -87.6298),
			"Dubai":       mustGeoPoint(25.2048, 55.2708),
			"Abu Dhabi":   mustGeoPoint(24.4539, 54.3773),
		},
		CoordinateJitter:            0.01,
		InventoryFailureProbability: 0.1,
		BaseShippingCost:            10,
		CostPerItem:                 2,
		PremiumCities: map[string]struct{}{
			"New York":    {},
			"Los Angeles": {},
			"Abu Dhabi":   {},
		},
		PremiumRate:           1.2,
		Carriers:              []string{"FedEx", "UPS", "USPS"},
		MinEstimatedDays:      2,
		MaxEstimatedDays:      4,
		RiskQuantityThreshold: 10,
		UnitValue:             100,
		HighValueThreshold:    1000,
		HighRiskCities: map[string]struct{}{
			"Dubai":     {},
			"Abu Dhabi": {},
		},
	}
}

func mustGeoPoint(lat, lng float64) kernel.GeoPoint {
	p, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}
