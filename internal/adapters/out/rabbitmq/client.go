// Package rabbitmq provides the broker adapter for the order processing
// queue. It covers both directions: confirmed publishing from the ingestion
// producer and acknowledged consumption by the pipeline consumer.
//
// Queue topology is declared on startup: the work queue dead-letters rejected
// messages to a companion queue instead of redelivering them, so a poisoned
// message can never loop through the pipeline.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// prefetchCount caps unacknowledged deliveries per consumer channel.
const prefetchCount = 8

// Client wraps one AMQP connection with a confirm-mode publishing channel.
// It implements both ports.MessagePublisher and ports.MessageConsumer.
type Client struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// NewClient dials the broker and opens a confirm-mode channel for
// publishing.
func NewClient(url string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	return &Client{
		conn:   conn,
		ch:     ch,
		logger: logger.With(slog.String("component", "rabbitmq")),
	}, nil
}

// DeclareQueues declares the durable work queue and its dead letter queue.
// Messages rejected by the consumer are routed to the dead letter queue via
// the default exchange.
func (c *Client) DeclareQueues(queue, deadLetterQueue string) error {
	if _, err := c.ch.QueueDeclare(deadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %q: %w", deadLetterQueue, err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": deadLetterQueue,
	}
	if _, err := c.ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	return nil
}

// Publish sends one persistent message to the queue and waits for the
// broker's confirm. It does not return before the message is safely owned by
// the broker or the context is done.
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	confirmation, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %q: %w", queue, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm publish to %q: %w", queue, err)
	}
	if !acked {
		return fmt.Errorf("broker rejected publish to %q", queue)
	}

	return nil
}

// Consume delivers messages from the queue to handler until ctx is done or
// the broker closes the channel. It returns the context error on
// cancellation and a non-nil error when the broker ends the stream early, so
// the caller can tell a requested shutdown from a lost consumer. A nil
// handler result acknowledges the message; an error result rejects it
// without requeueing, which routes it to the dead letter queue.
//
// Each delivery is handled in its own goroutine; the prefetch window bounds
// the concurrency.
func (c *Client) Consume(ctx context.Context, queue string, handler func(ctx context.Context, body []byte) error) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer func() {
		_ = ch.Close()
	}()

	if err = ch.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from %q: %w", queue, err)
	}

	for delivery := range deliveries {
		go c.handleDelivery(ctx, queue, delivery, handler)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	// The delivery channel closed while the context was still live, so the
	// broker dropped the channel or connection.
	return fmt.Errorf("delivery channel for %q closed by broker", queue)
}

func (c *Client) handleDelivery(
	ctx context.Context,
	queue string,
	delivery amqp.Delivery,
	handler func(ctx context.Context, body []byte) error,
) {
	if err := handler(ctx, delivery.Body); err != nil {
		c.logger.ErrorContext(ctx, "rejecting message to dead letter queue",
			slog.String("queue", queue),
			slog.Any("error", err))

		if nackErr := delivery.Nack(false, false); nackErr != nil {
			c.logger.ErrorContext(ctx, "failed to reject message", slog.Any("error", nackErr))
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		c.logger.ErrorContext(ctx, "failed to acknowledge message", slog.Any("error", ackErr))
	}
}

// Close releases the channel and connection.
func (c *Client) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
