package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrProcessOrderCommandIsNotConstructed = errors.New(
	"ProcessOrderCommand must be created via NewProcessOrderCommand constructor",
)

// ProcessOrderCommand represents a request to run the processing pipeline for
// one enqueued order. The command carries only the order identifier; the
// handler loads the authoritative state from storage so a stale or replayed
// queue message can never resurrect an already settled order.
type ProcessOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessOrderCommand creates a command to process one order.
func NewProcessOrderCommand(orderID kernel.UUID) (ProcessOrderCommand, error) {
	processCommand := ProcessOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := processCommand.setOrderID(orderID); err != nil {
		return ProcessOrderCommand{}, err
	}

	return processCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessOrderCommandIsNotConstructed if validation fails.
func (c ProcessOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to process.
func (c ProcessOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ProcessOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
