// Package processing provides the append-only audit trail of the order
// pipeline: one Entry per stage attempt plus one terminal marker per run.
// Entries are immutable; they are never updated or deleted, and they are
// written whether or not the order ultimately succeeds.
package processing

import (
	"errors"
	"maps"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry was not created through
// NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")

// Entry is one immutable audit record of a stage attempt. It references its
// order by identifier only; the audit trail must remain readable even when
// the order row itself is under concurrent mutation.
type Entry struct {
	id           kernel.UUID
	orderID      kernel.UUID
	stage        Stage
	success      bool
	metadata     map[string]any
	errorMessage string
	createdAt    time.Time

	isConstructed bool
}

// NewEntry creates an audit entry for one stage attempt. The metadata map is
// copied so later mutation by the caller cannot alter the recorded state.
// errorMessage is required for failed attempts and forbidden for successes.
func NewEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	stage Stage,
	success bool,
	metadata map[string]any,
	errorMessage string,
) (*Entry, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		stage.Validate(),
	); err != nil {
		return nil, err
	}

	if !success && errorMessage == "" {
		return nil, errs.NewValueIsRequiredError("error message for failed stage attempt")
	}
	if success && errorMessage != "" {
		return nil, errs.NewValueIsInvalidError("error message on successful stage attempt")
	}

	return &Entry{
		id:            id,
		orderID:       orderID,
		stage:         stage,
		success:       success,
		metadata:      cloneMetadata(metadata),
		errorMessage:  errorMessage,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreEntry reconstructs an entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	stage Stage,
	success bool,
	metadata map[string]any,
	errorMessage string,
	createdAt time.Time,
) (*Entry, error) {
	e, err := NewEntry(id, orderID, stage, success, metadata, errorMessage)
	if err != nil {
		return nil, err
	}

	e.createdAt = createdAt
	return e, nil
}

// Validate ensures the Entry instance was properly constructed.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}

	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// OrderID returns the identifier of the audited order.
func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

// Stage returns the stage label of the attempt.
func (e *Entry) Stage() Stage {
	return e.stage
}

// Success reports whether the attempt succeeded.
func (e *Entry) Success() bool {
	return e.success
}

// Metadata returns a copy of the structured attempt metadata.
func (e *Entry) Metadata() map[string]any {
	return cloneMetadata(e.metadata)
}

// ErrorMessage returns the failure message, empty for successful attempts.
func (e *Entry) ErrorMessage() string {
	return e.errorMessage
}

// CreatedAt returns the time the attempt was recorded.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func cloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	return maps.Clone(metadata)
}
