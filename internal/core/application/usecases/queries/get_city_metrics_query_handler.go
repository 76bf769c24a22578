package queries

import (
	"context"

	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/order"
)

// GetCityMetricsQueryHandler aggregates order outcomes per city from the
// database.
type GetCityMetricsQueryHandler struct {
	db *gorm.DB
}

// NewGetCityMetricsQueryHandler creates a handler for city metrics queries.
// Requires a GORM database connection for query execution.
func NewGetCityMetricsQueryHandler(db *gorm.DB) GetCityMetricsQueryHandler {
	return GetCityMetricsQueryHandler{db: db}
}

// Handle executes the city metrics query.
// Cities are sorted by total order count, busiest first.
func (h GetCityMetricsQueryHandler) Handle(
	ctx context.Context,
	query GetCityMetricsQuery,
) ([]CityMetricsResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			city,
			COUNT(*) AS total_orders,
			SUM(quantity) AS total_quantity,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed_orders,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS failed_orders
		FROM orders
		GROUP BY city
		ORDER BY total_orders DESC, city
	`, int(order.Completed), int(order.Failed)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := make([]CityMetricsResponse, 0)
	for rows.Next() {
		var metric CityMetricsResponse
		err = rows.Scan(
			&metric.City,
			&metric.TotalOrders,
			&metric.TotalQuantity,
			&metric.CompletedOrders,
			&metric.FailedOrders,
		)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, metric)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return metrics, nil
}
