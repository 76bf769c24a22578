package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_IsSkipped() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// A replayed ingestion inserts the same identifier again
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAll_PersistsAllOrders() {
	ctx := context.Background()
	batchID := kernel.NewUUID()

	orders := []*order.Order{
		suite.createTestOrder(batchID),
		suite.createTestOrder(batchID),
		suite.createTestOrder(batchID),
	}
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	err := suite.repository.AddAll(ctx, orders)
	suite.Require().NoError(err)

	suite.assertOrderCount(3)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAll_EmptySlice_IsNoOp() {
	err := suite.repository.AddAll(context.Background(), nil)
	suite.Require().NoError(err)
	suite.assertOrderCount(0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTripsAllFields() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(testOrder.ID().IsEqual(retrieved.ID()))
	suite.True(testOrder.BatchID().IsEqual(retrieved.BatchID()))
	suite.Equal(testOrder.OrderNumber(), retrieved.OrderNumber())
	suite.Equal(testOrder.CustomerEmail(), retrieved.CustomerEmail())
	suite.Equal(testOrder.ProductSKU(), retrieved.ProductSKU())
	suite.Equal(testOrder.Quantity(), retrieved.Quantity())
	suite.Equal(testOrder.Address(), retrieved.Address())
	suite.Equal(testOrder.City(), retrieved.City())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Empty(retrieved.ErrorReason())
	suite.Nil(retrieved.ProcessedAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_FailedOrder_PersistsReasonAndTimestamp() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.StartProcessing())
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	suite.Require().NoError(testOrder.Fail("Insufficient inventory"))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Failed, retrieved.Status())
	suite.Equal("Insufficient inventory", retrieved.ErrorReason())
	suite.NotNil(retrieved.ProcessedAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_WritesZeroValuedFields() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.StartProcessing())
	suite.Require().NoError(testOrder.Fail("Insufficient inventory"))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	// A full-row write must clear the nullable columns again.
	corrected, err := order.RestoreOrder(
		testOrder.ID(),
		testOrder.BatchID(),
		testOrder.OrderNumber(),
		testOrder.CustomerEmail(),
		testOrder.ProductSKU(),
		testOrder.Quantity(),
		testOrder.Address(),
		testOrder.City(),
		order.Processing,
		"",
		testOrder.CreatedAt(),
		nil,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, corrected))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Processing, retrieved.Status())
	suite.Empty(retrieved.ErrorReason())
	suite.Nil(retrieved.ProcessedAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	testOrder := suite.createTestOrder(kernel.NewUUID())

	err := suite.repository.Update(context.Background(), testOrder)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByBatch_FiltersAndLimits() {
	ctx := context.Background()
	batchID := kernel.NewUUID()
	otherBatchID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	first := suite.createTestOrder(batchID)
	second := suite.createTestOrder(batchID)
	suite.Require().NoError(second.StartProcessing())
	suite.Require().NoError(second.Complete())
	third := suite.createTestOrder(batchID)
	foreign := suite.createTestOrder(otherBatchID)

	suite.Require().NoError(suite.repository.AddAll(ctx, []*order.Order{first, second, third, foreign}))

	all, err := suite.repository.GetByBatch(ctx, batchID, nil, 0)
	suite.Require().NoError(err)
	suite.Len(all, 3)

	completed := order.Completed
	onlyCompleted, err := suite.repository.GetByBatch(ctx, batchID, &completed, 0)
	suite.Require().NoError(err)
	suite.Require().Len(onlyCompleted, 1)
	suite.True(second.ID().IsEqual(onlyCompleted[0].ID()))

	limited, err := suite.repository.GetByBatch(ctx, batchID, nil, 2)
	suite.Require().NoError(err)
	suite.Len(limited, 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountNonTerminalByBatch() {
	ctx := context.Background()
	batchID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	pending := suite.createTestOrder(batchID)
	completed := suite.createTestOrder(batchID)
	suite.Require().NoError(completed.StartProcessing())
	suite.Require().NoError(completed.Complete())
	failed := suite.createTestOrder(batchID)
	suite.Require().NoError(failed.Fail("failed to enqueue: broker unavailable"))

	suite.Require().NoError(suite.repository.AddAll(ctx, []*order.Order{pending, completed, failed}))

	count, err := suite.repository.CountNonTerminalByBatch(ctx, batchID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	suite.tracker.AssertExpectations(suite.T())
}

// createTestOrder creates a Pending test order bound to the given batch.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(batchID kernel.UUID) *order.Order {
	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		batchID,
		"ORD-000123",
		"buyer@example.com",
		"SKU-AB12CD34",
		3,
		"1 Main St",
		"New York",
	)
	suite.Require().NoError(err)
	return testOrder
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
