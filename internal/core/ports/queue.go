package ports

import "context"

const (
	// OrderProcessingQueue is the durable queue carrying one message per
	// ingested order.
	OrderProcessingQueue = "order_processing_queue"

	// OrderProcessingDeadLetterQueue receives messages rejected by the
	// consumer after a business failure, keeping them for inspection
	// instead of redelivering them.
	OrderProcessingDeadLetterQueue = "order_processing_queue.dlq"
)

// MessagePublisher defines the outbound messaging contract. Publish must not
// return before the broker has confirmed that the message is persisted.
type MessagePublisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// MessageConsumer defines the inbound messaging contract. Consume blocks
// delivering messages to handler until ctx is cancelled. A nil handler result
// acknowledges the message; an error result dead-letters it.
type MessageConsumer interface {
	Consume(ctx context.Context, queue string, handler func(ctx context.Context, body []byte) error) error
}

// OrderMessage is the wire representation of one enqueued order.
type OrderMessage struct {
	ID            string `json:"id"`
	BatchID       string `json:"batchId"`
	OrderNumber   string `json:"orderId"`
	CustomerEmail string `json:"customerEmail"`
	ProductSKU    string `json:"productSku"`
	Quantity      int    `json:"quantity"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Status        string `json:"status"`
}
