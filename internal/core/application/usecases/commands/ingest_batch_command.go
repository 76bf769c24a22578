package commands

import (
	"errors"
	"io"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrIngestBatchCommandIsNotConstructed = errors.New(
		"IngestBatchCommand must be created via NewIngestBatchCommand constructor",
	)
)

// IngestBatchCommand represents a request to ingest one uploaded CSV file as
// a batch of orders. The file content is consumed as a stream; the command
// owns neither opening nor closing it.
//
// Example:
//
//	batchID := kernel.NewUUID()
//	cmd, err := NewIngestBatchCommand(batchID, "orders.csv", file)
//	if err != nil {
//	    return fmt.Errorf("invalid upload: %w", err)
//	}
//
//	handler := NewIngestBatchCommandHandler(uowFactory, publisher, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to ingest batch: %w", err)
//	}
type IngestBatchCommand struct { //nolint:recvcheck //using for validation
	batchID  kernel.UUID
	filename string
	data     io.Reader

	guard guard.ConstructorGuard
}

// NewIngestBatchCommand creates a command to ingest an uploaded file.
// Validates that the batch ID is valid, the filename is not empty, and the
// data stream is present.
func NewIngestBatchCommand(batchID kernel.UUID, filename string, data io.Reader) (IngestBatchCommand, error) {
	ingestCommand := IngestBatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ingestCommand.setBatchID(batchID),
		ingestCommand.setFilename(filename),
		ingestCommand.setData(data),
	); err != nil {
		return IngestBatchCommand{}, err
	}

	return ingestCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrIngestBatchCommandIsNotConstructed if validation fails.
func (c IngestBatchCommand) Validate() error {
	return c.guard.Validate(ErrIngestBatchCommandIsNotConstructed)
}

// BatchID returns the pre-generated identifier of the batch to create.
func (c IngestBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

// Filename returns the name of the uploaded file.
func (c IngestBatchCommand) Filename() string {
	return c.filename
}

// Data returns the CSV content stream.
func (c IngestBatchCommand) Data() io.Reader {
	return c.data
}

func (c *IngestBatchCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	c.batchID = batchID
	return nil
}

func (c *IngestBatchCommand) setFilename(filename string) error {
	if filename == "" {
		return errs.NewValueIsRequiredError("filename")
	}

	c.filename = filename
	return nil
}

func (c *IngestBatchCommand) setData(data io.Reader) error {
	if data == nil {
		return errs.NewValueIsRequiredError("data")
	}

	c.data = data
	return nil
}
