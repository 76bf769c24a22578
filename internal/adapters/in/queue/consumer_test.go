package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

type MockOrderProcessor struct{ mock.Mock }

func (m *MockOrderProcessor) Handle(ctx context.Context, cmd commands.ProcessOrderCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// inlineConsumer delivers canned messages straight to the handler.
type inlineConsumer struct {
	bodies [][]byte
	errs   []error
}

func (c *inlineConsumer) Consume(
	ctx context.Context,
	_ string,
	handler func(ctx context.Context, body []byte) error,
) error {
	for _, body := range c.bodies {
		c.errs = append(c.errs, handler(ctx, body))
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_OrderConsumer_DispatchesDecodedMessage(t *testing.T) {
	orderID := kernel.NewUUID()
	body, err := json.Marshal(ports.OrderMessage{
		ID:          orderID.String(),
		BatchID:     kernel.NewUUID().String(),
		OrderNumber: "ORD-000042",
		Quantity:    3,
		City:        "New York",
		Status:      "Pending",
	})
	require.NoError(t, err)

	processor := new(MockOrderProcessor)
	processor.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ProcessOrderCommand) bool {
		return orderID.IsEqual(cmd.OrderID())
	})).Return(nil).Once()

	transport := &inlineConsumer{bodies: [][]byte{body}}
	consumer := NewOrderConsumer(transport, processor, testLogger())

	require.NoError(t, consumer.Run(t.Context()))
	require.Len(t, transport.errs, 1)
	assert.NoError(t, transport.errs[0])
	processor.AssertExpectations(t)
}

func Test_OrderConsumer_RejectsUndecodableMessage(t *testing.T) {
	processor := new(MockOrderProcessor)
	transport := &inlineConsumer{bodies: [][]byte{[]byte("not json")}}
	consumer := NewOrderConsumer(transport, processor, testLogger())

	require.NoError(t, consumer.Run(t.Context()))
	require.Len(t, transport.errs, 1)
	assert.Error(t, transport.errs[0])
	processor.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func Test_OrderConsumer_RejectsInvalidOrderID(t *testing.T) {
	body, err := json.Marshal(ports.OrderMessage{ID: "not-a-uuid"})
	require.NoError(t, err)

	processor := new(MockOrderProcessor)
	transport := &inlineConsumer{bodies: [][]byte{body}}
	consumer := NewOrderConsumer(transport, processor, testLogger())

	require.NoError(t, consumer.Run(t.Context()))
	require.Len(t, transport.errs, 1)
	assert.Error(t, transport.errs[0])
	processor.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func Test_OrderConsumer_PropagatesProcessorError(t *testing.T) {
	body, err := json.Marshal(ports.OrderMessage{ID: kernel.NewUUID().String()})
	require.NoError(t, err)

	infraErr := errors.New("database down")
	processor := new(MockOrderProcessor)
	processor.On("Handle", mock.Anything, mock.Anything).Return(infraErr).Once()

	transport := &inlineConsumer{bodies: [][]byte{body}}
	consumer := NewOrderConsumer(transport, processor, testLogger())

	require.NoError(t, consumer.Run(t.Context()))
	require.Len(t, transport.errs, 1)
	assert.ErrorIs(t, transport.errs[0], infraErr)
	processor.AssertExpectations(t)
}
