package http

import "time"

// Error is the uniform error body of all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Batch is the wire representation of one upload and its progress.
type Batch struct {
	Id              string    `json:"id"`
	Filename        string    `json:"filename"`
	TotalOrders     int       `json:"totalOrders"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	PendingOrders   int       `json:"pendingOrders"`
	InFlightOrders  int       `json:"inFlightOrders"`
	CompletedOrders int       `json:"completedOrders"`
	FailedOrders    int       `json:"failedOrders"`
	Orders          []Order   `json:"orders,omitempty"`
}

// Order is the wire representation of one order.
type Order struct {
	Id            string     `json:"id"`
	BatchId       string     `json:"batchId"`
	OrderNumber   string     `json:"orderNumber"`
	CustomerEmail string     `json:"customerEmail"`
	ProductSku    string     `json:"productSku"`
	Quantity      int        `json:"quantity"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Status        string     `json:"status"`
	ErrorReason   string     `json:"errorReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
}

// LogEntry is the wire representation of one audit record.
type LogEntry struct {
	Id           string         `json:"id"`
	OrderId      string         `json:"orderId"`
	Stage        string         `json:"stage"`
	Success      bool           `json:"success"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// CityMetrics is the wire representation of one city's aggregated outcomes.
type CityMetrics struct {
	City            string `json:"city"`
	TotalOrders     int    `json:"totalOrders"`
	TotalQuantity   int    `json:"totalQuantity"`
	CompletedOrders int    `json:"completedOrders"`
	FailedOrders    int    `json:"failedOrders"`
}
