package cmd

import (
	"log/slog"

	httpin "kirana/internal/adapters/in/http"
	"kirana/internal/adapters/out/postgres"
	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/application/usecases/queries"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/ports"
	"kirana/internal/jobs"
	"kirana/internal/telemetry"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	metrics    telemetry.Metrics
	logger     *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	metrics telemetry.Metrics,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		clock:      kernel.SystemClock(cfg.Location()),
		metrics:    metrics,
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.CreateGorm()
	})
	return commands.NewCreateOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.uow(), c.clock, c.cfg.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateReassignAgentCommandHandler() commands.ReassignAgentCommandHandler {
	return commands.NewReassignAgentCommandHandler(c.uow(), c.clock, c.cfg.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateAssignBulkOrderAgentCommandHandler() commands.AssignBulkOrderAgentCommandHandler {
	return commands.NewAssignBulkOrderAgentCommandHandler(c.uow(), c.clock, c.cfg.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.uow(), c.CreateAssignAgentCommandHandler(),
		c.clock, c.logger, commands.DefaultUpdateAttempts).WithRecorder(c.metrics)
}

func (c *CompositionRoot) CreateAdvanceDeliveryStatusCommandHandler() commands.AdvanceDeliveryStatusCommandHandler {
	return commands.NewAdvanceDeliveryStatusCommandHandler(c.uow(), c.clock, commands.DefaultUpdateAttempts)
}

func (c *CompositionRoot) CreateAdvanceBulkOrderStatusCommandHandler() commands.AdvanceBulkOrderStatusCommandHandler {
	return commands.NewAdvanceBulkOrderStatusCommandHandler(c.uow(), c.CreateAssignBulkOrderAgentCommandHandler(),
		c.clock, c.logger, commands.DefaultUpdateAttempts).WithRecorder(c.metrics)
}

func (c *CompositionRoot) CreateJoinBulkOrderCommandHandler() commands.JoinBulkOrderCommandHandler {
	policy := commands.JoinPolicy{
		DeliveryFeeDiscount: c.cfg.BulkDeliveryFeeDiscount,
		DeliveryLeadTime:    c.cfg.BulkDeliveryLeadTime,
	}
	return commands.NewJoinBulkOrderCommandHandler(c.uow(), c.clock, policy, c.cfg.JoinMaxAttempts)
}

func (c *CompositionRoot) agentUoW() commands.AgentUoWFactory {
	return FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) CreateCreateAgentCommandHandler() commands.CreateAgentCommandHandler {
	return commands.NewCreateAgentCommandHandler(c.agentUoW())
}

func (c *CompositionRoot) CreateSetAgentAvailabilityCommandHandler() commands.SetAgentAvailabilityCommandHandler {
	return commands.NewSetAgentAvailabilityCommandHandler(c.agentUoW(), c.clock, commands.DefaultUpdateAttempts)
}

func (c *CompositionRoot) CreateUpdateAgentLocationCommandHandler() commands.UpdateAgentLocationCommandHandler {
	return commands.NewUpdateAgentLocationCommandHandler(c.agentUoW(), c.clock, commands.DefaultUpdateAttempts)
}

func (c *CompositionRoot) CreateRegisterApartmentCommandHandler() commands.RegisterApartmentCommandHandler {
	var f commands.ApartmentUoWFactory = FuncApartmentUoWFactory(func() commands.ApartmentUoW {
		return c.uowFactory.CreateGorm()
	})
	return commands.NewRegisterApartmentCommandHandler(f)
}

func (c *CompositionRoot) CreateGetAgentOrdersQueryHandler() queries.GetAgentOrdersQueryHandler {
	return queries.NewGetAgentOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEligibleAgentsQueryHandler() queries.GetEligibleAgentsQueryHandler {
	return queries.NewGetEligibleAgentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBulkOrderQueryHandler() queries.GetBulkOrderQueryHandler {
	// Outside a transaction the repository reads straight from the pool.
	apartments := c.uowFactory.CreateGorm().ApartmentRepository()
	return queries.NewGetBulkOrderQueryHandler(c.gormDB, apartments, c.clock)
}

// HTTPHandlers wires every use case the API serves.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:            c.CreateCreateOrderCommandHandler(),
		AdvanceOrderStatus:     c.CreateAdvanceOrderStatusCommandHandler(),
		AdvanceDeliveryStatus:  c.CreateAdvanceDeliveryStatusCommandHandler(),
		AssignAgent:            c.CreateAssignAgentCommandHandler(),
		ReassignAgent:          c.CreateReassignAgentCommandHandler(),
		CreateAgent:            c.CreateCreateAgentCommandHandler(),
		SetAgentAvailability:   c.CreateSetAgentAvailabilityCommandHandler(),
		UpdateAgentLocation:    c.CreateUpdateAgentLocationCommandHandler(),
		RegisterApartment:      c.CreateRegisterApartmentCommandHandler(),
		JoinBulkOrder:          c.CreateJoinBulkOrderCommandHandler(),
		AdvanceBulkOrderStatus: c.CreateAdvanceBulkOrderStatusCommandHandler(),
		AssignBulkOrderAgent:   c.CreateAssignBulkOrderAgentCommandHandler(),
		GetAgentOrders:         c.CreateGetAgentOrdersQueryHandler(),
		GetEligibleAgents:      c.CreateGetEligibleAgentsQueryHandler(),
		GetBulkOrder:           c.CreateGetBulkOrderQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	orders := c.uowFactory.CreateGorm().OrderRepository()
	return jobs.NewJobManager(orders, c.CreateAssignAgentCommandHandler(),
		c.cfg.AssignmentSweepSchedule, c.metrics, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncApartmentUoWFactory func() commands.ApartmentUoW

func (f FuncApartmentUoWFactory) Create() commands.ApartmentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
