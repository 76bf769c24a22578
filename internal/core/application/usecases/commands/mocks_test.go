package commands_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/batch"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
	"orderflow/internal/core/ports"
)

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetAllInProcessingStatus(ctx context.Context) ([]*batch.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batch.Batch), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) AddAll(ctx context.Context, orders []*order.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByBatch(
	ctx context.Context, batchID kernel.UUID, status *order.Status, limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, batchID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountNonTerminalByBatch(ctx context.Context, batchID kernel.UUID) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) BatchRepository() ports.BatchRepository {
	args := m.Called()
	return args.Get(0).(ports.BatchRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockMessagePublisher struct{ mock.Mock }

func (m *MockMessagePublisher) Publish(ctx context.Context, queue string, body []byte) error {
	args := m.Called(ctx, queue, body)
	return args.Error(0)
}

type MockProcessingLogRepository struct{ mock.Mock }

func (m *MockProcessingLogRepository) Add(ctx context.Context, entry *processing.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProcessingLogRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*processing.Entry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*processing.Entry), args.Error(1)
}

// recordedAttempt captures one StageRecorder call for assertion.
type recordedAttempt struct {
	orderID      kernel.UUID
	stage        processing.Stage
	success      bool
	metadata     map[string]any
	errorMessage string
}

// fakeRecorder collects audit records in memory.
type fakeRecorder struct {
	attempts []recordedAttempt
}

func (r *fakeRecorder) Record(
	_ context.Context,
	orderID kernel.UUID,
	stage processing.Stage,
	success bool,
	metadata map[string]any,
	errorMessage string,
) {
	r.attempts = append(r.attempts, recordedAttempt{
		orderID:      orderID,
		stage:        stage,
		success:      success,
		metadata:     metadata,
		errorMessage: errorMessage,
	})
}

// stubEvaluator is a canned pipeline stage.
type stubEvaluator struct {
	stage    processing.Stage
	metadata map[string]any
	err      error
}

func (s stubEvaluator) Stage() processing.Stage { return s.stage }

func (s stubEvaluator) Evaluate(_ context.Context, _ *order.Order) (map[string]any, error) {
	return s.metadata, s.err
}
