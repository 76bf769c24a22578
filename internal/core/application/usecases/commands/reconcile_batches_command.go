package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

// ReconcileBatchesCommand triggers settlement of batches whose orders have
// all reached a terminal status. Batch completion is derived from order
// state rather than counted incrementally, so a crashed consumer never
// leaves a batch permanently short of its total.
//
// Example:
//
//	cmd := NewReconcileBatchesCommand()
//	handler := NewReconcileBatchesCommandHandler(uowFactory)
//
//	// Run periodically from a scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Batch reconciliation failed: %v", err)
//	}
type ReconcileBatchesCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrReconcileBatchesCommandIsNotConstructed = errors.New(
		"ReconcileBatchesCommand must be created via NewReconcileBatchesCommand constructor",
	)
)

// NewReconcileBatchesCommand creates a command to settle finished batches.
// This is a parameterless command that inspects all batches in Processing.
func NewReconcileBatchesCommand() ReconcileBatchesCommand {
	command := ReconcileBatchesCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileBatchesCommandIsNotConstructed if validation fails.
func (c *ReconcileBatchesCommand) Validate() error {
	return c.guard.Validate(ErrReconcileBatchesCommandIsNotConstructed)
}
