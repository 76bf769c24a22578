package queries

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/processing"
)

// GetProcessingLogQueryHandler reads the audit trail of one order from the
// database.
type GetProcessingLogQueryHandler struct {
	db *gorm.DB
}

// NewGetProcessingLogQueryHandler creates a handler for audit trail queries.
// Requires a GORM database connection for query execution.
func NewGetProcessingLogQueryHandler(db *gorm.DB) GetProcessingLogQueryHandler {
	return GetProcessingLogQueryHandler{db: db}
}

// Handle executes the audit trail query.
// Entries are returned in recording order.
func (h GetProcessingLogQueryHandler) Handle(
	ctx context.Context,
	query GetProcessingLogQuery,
) ([]ProcessingLogEntryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			stage,
			success,
			metadata,
			error_message,
			created_at
		FROM processing_log
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]ProcessingLogEntryResponse, 0)
	for rows.Next() {
		entry, scanErr := scanLogRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func scanLogRow(rows *sql.Rows) (ProcessingLogEntryResponse, error) {
	var (
		entry        ProcessingLogEntryResponse
		id           uuid.UUID
		orderID      uuid.UUID
		stageValue   int
		metadata     []byte
		errorMessage sql.NullString
	)

	err := rows.Scan(
		&id,
		&orderID,
		&stageValue,
		&entry.Success,
		&metadata,
		&errorMessage,
		&entry.CreatedAt,
	)
	if err != nil {
		return ProcessingLogEntryResponse{}, err
	}

	entryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return ProcessingLogEntryResponse{}, err
	}
	entry.ID = entryID

	entryOrderID, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return ProcessingLogEntryResponse{}, err
	}
	entry.OrderID = entryOrderID

	entry.Stage = processing.Stage(stageValue).String()
	entry.ErrorMessage = errorMessage.String

	if len(metadata) > 0 {
		if err = json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return ProcessingLogEntryResponse{}, err
		}
	}

	return entry, nil
}
