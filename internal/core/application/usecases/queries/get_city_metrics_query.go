package queries

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var (
	ErrGetCityMetricsQueryIsNotConstructed = errors.New(
		"GetCityMetricsQuery must be created via NewGetCityMetricsQuery constructor",
	)
)

// GetCityMetricsQuery aggregates order outcomes per destination city.
//
// Example:
//
//	query := NewGetCityMetricsQuery()
//	handler := NewGetCityMetricsQueryHandler(db)
//
//	metrics, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get city metrics: %w", err)
//	}
//	for _, m := range metrics {
//	    fmt.Printf("%s: %d orders, %d failed\n", m.City, m.TotalOrders, m.FailedOrders)
//	}
type GetCityMetricsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetCityMetricsQuery creates a query for per-city order metrics.
// This is a parameterless query covering all ingested orders.
func NewGetCityMetricsQuery() GetCityMetricsQuery {
	return GetCityMetricsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCityMetricsQueryIsNotConstructed if validation fails.
func (q GetCityMetricsQuery) Validate() error {
	return q.guard.Validate(ErrGetCityMetricsQueryIsNotConstructed)
}

// CityMetricsResponse is the aggregated outcome of all orders destined for
// one city.
type CityMetricsResponse struct {
	City            string
	TotalOrders     int
	TotalQuantity   int
	CompletedOrders int
	FailedOrders    int
}
