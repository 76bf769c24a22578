package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
	"orderflow/internal/core/domain/services"
)

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"ORD-000007",
		"buyer@example.com",
		"SKU-AB12CD34",
		3,
		"1 Main St",
		"New York",
	)
	require.NoError(t, err)
	return o
}

func completedOrder(t *testing.T) *order.Order {
	t.Helper()

	now := time.Now().UTC()
	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"ORD-000008",
		"buyer@example.com",
		"SKU-AB12CD34",
		3,
		"1 Main St",
		"New York",
		order.Completed,
		"",
		now.Add(-time.Hour),
		&now,
	)
	require.NoError(t, err)
	return o
}

func processingOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"ORD-000009",
		"buyer@example.com",
		"SKU-AB12CD34",
		3,
		"1 Main St",
		"New York",
		order.Processing,
		"",
		time.Now().UTC().Add(-time.Hour),
		nil,
	)
	require.NoError(t, err)
	return o
}

func pipelineUoW(repo *MockOrderRepository) *MockOrderUoW {
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(repo)
	return uow
}

func Test_ProcessOrderCommandHandler_Handle_AllStagesPass(t *testing.T) {
	ctx := t.Context()
	o := pendingOrder(t)
	cmd, err := commands.NewProcessOrderCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(pipelineUoW(repo)).Twice()

	recorder := new(fakeRecorder)
	evaluators := []services.StageEvaluator{
		stubEvaluator{stage: processing.StageAddressValidation, metadata: map[string]any{"city": "New York"}},
		stubEvaluator{stage: processing.StageInventoryCheck, metadata: map[string]any{"status": "available"}},
		stubEvaluator{stage: processing.StageShippingCalculation, metadata: map[string]any{"shippingCost": 19.2}},
		stubEvaluator{stage: processing.StageRiskAssessment, metadata: map[string]any{"riskLevel": "low"}},
	}

	h := commands.NewProcessOrderCommandHandler(factory, evaluators, recorder, discardLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Completed, o.Status())
	assert.NotNil(t, o.ProcessedAt())

	require.Len(t, recorder.attempts, 5)
	assert.Equal(t, processing.StageAddressValidation, recorder.attempts[0].stage)
	assert.Equal(t, processing.StageRiskAssessment, recorder.attempts[3].stage)
	for _, attempt := range recorder.attempts[:4] {
		assert.True(t, attempt.success)
		assert.Empty(t, attempt.errorMessage)
	}
	assert.Equal(t, processing.StageCompleted, recorder.attempts[4].stage)
	assert.True(t, recorder.attempts[4].success)

	repo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func Test_ProcessOrderCommandHandler_Handle_StageFailureSettlesOrder(t *testing.T) {
	ctx := t.Context()
	o := pendingOrder(t)
	cmd, err := commands.NewProcessOrderCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(pipelineUoW(repo)).Twice()

	recorder := new(fakeRecorder)
	evaluators := []services.StageEvaluator{
		stubEvaluator{stage: processing.StageAddressValidation, metadata: map[string]any{"city": "New York"}},
		stubEvaluator{
			stage:    processing.StageInventoryCheck,
			metadata: map[string]any{"requestedQuantity": 3},
			err:      services.NewStageError(processing.StageInventoryCheck, "Insufficient inventory"),
		},
		stubEvaluator{stage: processing.StageShippingCalculation},
	}

	h := commands.NewProcessOrderCommandHandler(factory, evaluators, recorder, discardLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Failed, o.Status())
	assert.Equal(t, "Insufficient inventory", o.ErrorReason())

	require.Len(t, recorder.attempts, 3)
	assert.True(t, recorder.attempts[0].success)
	assert.False(t, recorder.attempts[1].success)
	assert.Equal(t, "Insufficient inventory", recorder.attempts[1].errorMessage)
	assert.Equal(t, processing.StageFailed, recorder.attempts[2].stage)
	assert.Equal(t, "Insufficient inventory", recorder.attempts[2].errorMessage)

	repo.AssertExpectations(t)
}

func Test_ProcessOrderCommandHandler_Handle_ResumesRedeliveredProcessingOrder(t *testing.T) {
	ctx := t.Context()
	o := processingOrder(t)
	cmd, err := commands.NewProcessOrderCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	// Only the terminal settle writes; the claim leaves the order untouched.
	repo.On("Update", mock.Anything, o).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(pipelineUoW(repo)).Twice()

	recorder := new(fakeRecorder)
	evaluators := []services.StageEvaluator{
		stubEvaluator{stage: processing.StageAddressValidation, metadata: map[string]any{"city": "New York"}},
		stubEvaluator{stage: processing.StageInventoryCheck, metadata: map[string]any{"status": "available"}},
		stubEvaluator{stage: processing.StageShippingCalculation, metadata: map[string]any{"shippingCost": 19.2}},
		stubEvaluator{stage: processing.StageRiskAssessment, metadata: map[string]any{"riskLevel": "low"}},
	}

	h := commands.NewProcessOrderCommandHandler(factory, evaluators, recorder, discardLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Completed, o.Status())
	assert.NotNil(t, o.ProcessedAt())

	require.Len(t, recorder.attempts, 5)
	assert.Equal(t, processing.StageCompleted, recorder.attempts[4].stage)

	repo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func Test_ProcessOrderCommandHandler_Handle_InfrastructureErrorPropagates(t *testing.T) {
	ctx := t.Context()
	o := pendingOrder(t)
	cmd, err := commands.NewProcessOrderCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(pipelineUoW(repo)).Once()

	recorder := new(fakeRecorder)
	infraErr := errors.New("connection reset")
	evaluators := []services.StageEvaluator{
		stubEvaluator{stage: processing.StageAddressValidation, err: infraErr},
	}

	h := commands.NewProcessOrderCommandHandler(factory, evaluators, recorder, discardLogger())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, infraErr)

	assert.Equal(t, order.Processing, o.Status())
	assert.Empty(t, recorder.attempts)
	repo.AssertExpectations(t)
}

func Test_ProcessOrderCommandHandler_Handle_SkipsTerminalOrder(t *testing.T) {
	ctx := t.Context()
	o := completedOrder(t)
	cmd, err := commands.NewProcessOrderCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(pipelineUoW(repo)).Once()

	recorder := new(fakeRecorder)

	h := commands.NewProcessOrderCommandHandler(factory, nil, recorder, discardLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Completed, o.Status())
	assert.Empty(t, recorder.attempts)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
