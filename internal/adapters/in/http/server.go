// Package http provides the REST adapter: batch uploads in, status and
// metrics projections out.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	ingestBatchHandler commands.IngestBatchCommandHandler

	// Query handlers
	getBatchHandler         queries.GetBatchQueryHandler
	getOrdersHandler        queries.GetOrdersQueryHandler
	getCityMetricsHandler   queries.GetCityMetricsQueryHandler
	getProcessingLogHandler queries.GetProcessingLogQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	ingestBatchHandler commands.IngestBatchCommandHandler,
	getBatchHandler queries.GetBatchQueryHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getCityMetricsHandler queries.GetCityMetricsQueryHandler,
	getProcessingLogHandler queries.GetProcessingLogQueryHandler,
) *Server {
	return &Server{
		ingestBatchHandler:      ingestBatchHandler,
		getBatchHandler:         getBatchHandler,
		getOrdersHandler:        getOrdersHandler,
		getCityMetricsHandler:   getCityMetricsHandler,
		getProcessingLogHandler: getProcessingLogHandler,
	}
}

// RegisterRoutes binds all API endpoints on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/batches", s.UploadBatch)
	api.GET("/batches/:batchId", s.GetBatch)
	api.GET("/batches/:batchId/orders", s.GetBatchOrders)
	api.GET("/orders/:orderId/log", s.GetOrderLog)
	api.GET("/metrics/cities", s.GetCityMetrics)
}

// UploadBatch handles POST /api/v1/batches - ingests an uploaded CSV file.
func (s *Server) UploadBatch(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Missing file upload",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Failed to open uploaded file",
		})
	}
	defer file.Close()

	batchID := kernel.NewUUID()
	cmd, err := commands.NewIngestBatchCommand(batchID, fileHeader.Filename, file)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid upload: " + err.Error(),
		})
	}

	if handleErr := s.ingestBatchHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Failed to ingest batch: " + handleErr.Error(),
		})
	}

	return s.respondWithBatch(ctx, http.StatusCreated, batchID, false)
}

// GetBatch handles GET /api/v1/batches/{batchId} - retrieves batch status.
// The optional withOrders query parameter includes the batch's orders.
func (s *Server) GetBatch(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid batch id",
		})
	}

	withOrders := ctx.QueryParam("withOrders") == "true"
	return s.respondWithBatch(ctx, http.StatusOK, batchID, withOrders)
}

// GetBatchOrders handles GET /api/v1/batches/{batchId}/orders - lists the
// batch's orders. Optional query parameters: status (exact status name) and
// limit.
func (s *Server) GetBatchOrders(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid batch id",
		})
	}

	var statusFilter *order.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		status, statusErr := order.StatusFromString(raw)
		if statusErr != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid status filter",
			})
		}
		statusFilter = &status
	}

	var limit int
	if err = echo.QueryParamsBinder(ctx).Int("limit", &limit).BindError(); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid limit",
		})
	}

	query, err := queries.NewGetOrdersQuery(batchID, statusFilter, limit)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrderResponse(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderLog handles GET /api/v1/orders/{orderId}/log - retrieves the
// order's audit trail.
func (s *Server) GetOrderLog(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetProcessingLogQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	entries, err := s.getProcessingLogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve processing log",
		})
	}

	response := make([]LogEntry, len(entries))
	for i, entry := range entries {
		response[i] = LogEntry{
			Id:           entry.ID.String(),
			OrderId:      entry.OrderID.String(),
			Stage:        entry.Stage,
			Success:      entry.Success,
			Metadata:     entry.Metadata,
			ErrorMessage: entry.ErrorMessage,
			CreatedAt:    entry.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCityMetrics handles GET /api/v1/metrics/cities - retrieves per-city
// order outcome aggregates.
func (s *Server) GetCityMetrics(ctx echo.Context) error {
	metrics, err := s.getCityMetricsHandler.Handle(ctx.Request().Context(), queries.NewGetCityMetricsQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve city metrics",
		})
	}

	response := make([]CityMetrics, len(metrics))
	for i, metric := range metrics {
		response[i] = CityMetrics{
			City:            metric.City,
			TotalOrders:     metric.TotalOrders,
			TotalQuantity:   metric.TotalQuantity,
			CompletedOrders: metric.CompletedOrders,
			FailedOrders:    metric.FailedOrders,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) respondWithBatch(ctx echo.Context, status int, batchID kernel.UUID, withOrders bool) error {
	query, err := queries.NewGetBatchQuery(batchID, withOrders)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	batchResp, err := s.getBatchHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		var notFoundErr *errs.ObjectNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Batch not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve batch",
		})
	}

	return ctx.JSON(status, toBatchResponse(batchResp))
}

func toBatchResponse(batchResp queries.GetBatchQueryResponse) Batch {
	response := Batch{
		Id:              batchResp.ID.String(),
		Filename:        batchResp.Filename,
		TotalOrders:     batchResp.TotalOrders,
		Status:          batchResp.Status,
		CreatedAt:       batchResp.CreatedAt,
		PendingOrders:   batchResp.PendingOrders,
		InFlightOrders:  batchResp.InFlightOrders,
		CompletedOrders: batchResp.CompletedOrders,
		FailedOrders:    batchResp.FailedOrders,
	}

	if batchResp.Orders != nil {
		orders := make([]Order, len(batchResp.Orders))
		for i, o := range batchResp.Orders {
			orders[i] = toOrderResponse(o)
		}
		response.Orders = orders
	}

	return response
}

func toOrderResponse(o queries.OrderResponse) Order {
	return Order{
		Id:            o.ID.String(),
		BatchId:       o.BatchID.String(),
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		ProductSku:    o.ProductSKU,
		Quantity:      o.Quantity,
		Address:       o.Address,
		City:          o.City,
		Status:        o.Status,
		ErrorReason:   o.ErrorReason,
		CreatedAt:     o.CreatedAt,
		ProcessedAt:   o.ProcessedAt,
	}
}
