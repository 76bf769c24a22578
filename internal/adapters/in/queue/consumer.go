// Package queue provides the inbound adapter of the processing pipeline:
// it turns queue messages into process-order commands.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

// orderProcessor is the narrow application capability the consumer needs.
type orderProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessOrderCommand) error
}

// OrderConsumer reads order messages from the processing queue and dispatches
// them to the pipeline. Messages that cannot be decoded, and messages whose
// processing hits an infrastructure fault, are returned as errors so the
// transport dead-letters them.
type OrderConsumer struct {
	consumer  ports.MessageConsumer
	processor orderProcessor
	logger    *slog.Logger
}

// NewOrderConsumer creates the queue consumer for order processing.
func NewOrderConsumer(consumer ports.MessageConsumer, processor orderProcessor, logger *slog.Logger) *OrderConsumer {
	return &OrderConsumer{
		consumer:  consumer,
		processor: processor,
		logger:    logger.With(slog.String("component", "order_consumer")),
	}
}

// Run consumes the processing queue until ctx is done.
func (c *OrderConsumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "consuming orders", slog.String("queue", ports.OrderProcessingQueue))
	return c.consumer.Consume(ctx, ports.OrderProcessingQueue, c.handleMessage)
}

func (c *OrderConsumer) handleMessage(ctx context.Context, body []byte) error {
	var message ports.OrderMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("failed to decode order message: %w", err)
	}

	orderID, err := kernel.UUIDFromString(message.ID)
	if err != nil {
		return fmt.Errorf("order message carries invalid id %q: %w", message.ID, err)
	}

	cmd, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		return err
	}

	return c.processor.Handle(ctx, cmd)
}
