// Package batch provides the Batch aggregate: one uploaded file and the
// metadata of its resulting order set. A batch is created and mutated by the
// ingestion producer; the reconciliation job completes it once every
// contained order has reached a terminal status. The pipeline consumer never
// touches it.
package batch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrBatchIsNotConstructed is returned when a Batch instance was not created
// through NewBatch or RestoreBatch.
var ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch or RestoreBatch constructor")

// Batch represents one uploaded file. The declared total is the number of
// rows that survived parsing; it never changes after ingestion.
type Batch struct {
	id          kernel.UUID
	filename    string
	totalOrders int
	status      Status
	createdAt   time.Time

	isConstructed bool
}

// NewBatch creates a Pending batch for an accepted upload.
func NewBatch(id kernel.UUID, filename string, totalOrders int) (*Batch, error) {
	b := &Batch{
		status:        Pending,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		b.setID(id),
		b.setFilename(filename),
		b.setTotalOrders(totalOrders),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBatch reconstructs a batch from persistence.
func RestoreBatch(id kernel.UUID, filename string, totalOrders int, status Status, createdAt time.Time) (*Batch, error) {
	b, err := NewBatch(id, filename, totalOrders)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	b.status = status
	b.createdAt = createdAt
	return b, nil
}

// Validate ensures the Batch instance was properly constructed.
func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}

	return nil
}

// ID returns the batch's unique identifier.
func (b *Batch) ID() kernel.UUID {
	return b.id
}

// Filename returns the source filename of the upload.
func (b *Batch) Filename() string {
	return b.filename
}

// TotalOrders returns the declared order count of the upload.
func (b *Batch) TotalOrders() int {
	return b.totalOrders
}

// Status returns the current lifecycle status.
func (b *Batch) Status() Status {
	return b.status
}

// CreatedAt returns the time the upload was accepted.
func (b *Batch) CreatedAt() time.Time {
	return b.createdAt
}

// StartProcessing marks the batch's orders as published to the queue.
func (b *Batch) StartProcessing() error {
	newStatus, err := b.status.StartProcessing()
	if err != nil {
		return err
	}

	b.status = newStatus
	return nil
}

// Complete marks the batch as fully reconciled: every order terminal.
func (b *Batch) Complete() error {
	newStatus, err := b.status.Complete()
	if err != nil {
		return err
	}

	b.status = newStatus
	return nil
}

// Fail marks the batch as aborted by a stream-level ingestion failure.
func (b *Batch) Fail() error {
	newStatus, err := b.status.Fail()
	if err != nil {
		return err
	}

	b.status = newStatus
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Batch) setFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return errs.NewValueIsRequiredError("filename")
	}
	b.filename = filename
	return nil
}

func (b *Batch) setTotalOrders(totalOrders int) error {
	if totalOrders < 0 {
		return errs.NewValueIsInvalidErrorWithCause("total orders",
			fmt.Errorf("%d is negative", totalOrders))
	}
	b.totalOrders = totalOrders
	return nil
}
