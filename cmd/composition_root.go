package cmd

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"orderflow/internal/adapters/in/queue"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/proclogrepo"
	"orderflow/internal/adapters/out/rabbitmq"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"
)

const (
	stageDelayMin = 2 * time.Second
	stageDelayMax = 5 * time.Second
)

type CompositionRoot struct {
	gormDB       *gorm.DB
	uowFactory   postgres.GormUnitOfWorkFactory
	rabbitClient *rabbitmq.Client
	logger       *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, rabbitClient *rabbitmq.Client, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		rabbitClient: rabbitClient,
		logger:       logger,
	}
}

func (c *CompositionRoot) CreateIngestBatchCommandHandler() commands.IngestBatchCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewIngestBatchCommandHandler(f, c.rabbitClient, c.logger)
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() commands.ProcessOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})

	ref := services.DefaultReferenceData()
	delay := services.RandomDelay(stageDelayMin, stageDelayMax)
	evaluators := []services.StageEvaluator{
		services.NewAddressValidator(ref, delay),
		services.NewInventoryChecker(ref, delay),
		services.NewShippingCalculator(ref, delay),
		services.NewRiskAssessor(ref, delay),
	}

	recorder := commands.NewProcessingLogRecorder(
		proclogrepo.NewGormProcessingLogRepository(c.gormDB),
		c.logger,
	)

	return commands.NewProcessOrderCommandHandler(f, evaluators, recorder, c.logger)
}

func (c *CompositionRoot) CreateReconcileBatchesCommandHandler() commands.ReconcileBatchesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileBatchesCommandHandler(f)
}

func (c *CompositionRoot) CreateGetBatchQueryHandler() queries.GetBatchQueryHandler {
	return queries.NewGetBatchQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCityMetricsQueryHandler() queries.GetCityMetricsQueryHandler {
	return queries.NewGetCityMetricsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetProcessingLogQueryHandler() queries.GetProcessingLogQueryHandler {
	return queries.NewGetProcessingLogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOrderConsumer() *queue.OrderConsumer {
	handler := c.CreateProcessOrderCommandHandler()
	return queue.NewOrderConsumer(c.rabbitClient, &handler, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReconcileBatchesCommandHandler(), c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
