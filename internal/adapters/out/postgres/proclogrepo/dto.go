// Package proclogrepo provides data transfer objects and mapping functions
// for the processing log. The log is append-only: entries are inserted once
// and never updated, so the repository exposes no mutation beyond Add.
package proclogrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/processing"
)

// EntryDTO represents the database structure for persisting audit entries.
// Stage metadata is stored as a JSONB document; its shape differs per stage.
type EntryDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	Stage        int
	Success      bool
	Metadata     []byte `gorm:"type:jsonb"`
	ErrorMessage *string
	CreatedAt    time.Time
}

// TableName specifies the database table name for audit entries.
// Overrides GORM's default naming convention to use "processing_log".
func (EntryDTO) TableName() string {
	return "processing_log"
}

// fromDomain converts an audit entry to its database representation.
func fromDomain(entry *processing.Entry) (EntryDTO, error) {
	var metadata []byte
	if m := entry.Metadata(); m != nil {
		raw, err := json.Marshal(m)
		if err != nil {
			return EntryDTO{}, err
		}
		metadata = raw
	}

	var errorMessage *string
	if msg := entry.ErrorMessage(); msg != "" {
		errorMessage = &msg
	}

	return EntryDTO{
		ID:           entry.ID().Bytes(),
		OrderID:      entry.OrderID().Bytes(),
		Stage:        int(entry.Stage()),
		Success:      entry.Success(),
		Metadata:     metadata,
		ErrorMessage: errorMessage,
		CreatedAt:    entry.CreatedAt(),
	}, nil
}

// toDomain converts a database DTO to an audit entry using RestoreEntry.
func toDomain(dto EntryDTO) (*processing.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var metadata map[string]any
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	var errorMessage string
	if dto.ErrorMessage != nil {
		errorMessage = *dto.ErrorMessage
	}

	return processing.RestoreEntry(
		id,
		orderID,
		processing.Stage(dto.Stage),
		dto.Success,
		metadata,
		errorMessage,
		dto.CreatedAt,
	)
}
