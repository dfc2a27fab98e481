package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "kirana/internal/adapters/out/postgres"
	"kirana/internal/adapters/out/postgres/apartmentrepo"
	"kirana/internal/adapters/out/postgres/pgtest"
	"kirana/internal/core/application/usecases/queries"
	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/ports"
	"kirana/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var (
	ist           = time.FixedZone("IST", 5*3600+1800)
	mondayEvening = time.Date(2026, 10, 12, 18, 30, 0, 0, ist)
)

// QueryHandlersTestSuite seeds state through the repositories and reads it
// back through the query handlers.
type QueryHandlersTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) TestGetAgentOrders_ReturnsActiveDeliveriesWithSnapshot() {
	// Given an agent with one assigned and one delivered order
	agentID := kernel.NewUUID()
	batchID := kernel.NewUUID()
	active := suite.readyOrder(mondayEvening)
	suite.Require().NoError(active.AssignAgent(agentID, batchID, mondayEvening))
	done := suite.readyOrder(mondayEvening.Add(-time.Hour))
	suite.Require().NoError(done.AssignAgent(agentID, batchID, mondayEvening))
	for _, s := range []order.DeliveryStatus{order.DeliveryPickedUp, order.DeliveryOutForDelivery, order.DeliveryDelivered} {
		suite.Require().NoError(done.AdvanceDelivery(s, false, mondayEvening))
	}
	suite.save(func(uow ports.UnitOfWork) error {
		if err := uow.OrderRepository().Add(context.Background(), active); err != nil {
			return err
		}
		return uow.OrderRepository().Add(context.Background(), done)
	})
	query, err := queries.NewGetAgentOrdersQuery(agentID)
	suite.Require().NoError(err)

	// When
	got, err := queries.NewGetAgentOrdersQueryHandler(suite.db).Handle(context.Background(), query)

	// Then
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.True(active.ID().IsEqual(got[0].OrderID))
	suite.Require().NotNil(got[0].BatchID)
	suite.True(batchID.IsEqual(*got[0].BatchID))
	suite.Equal("ReadyForPickup", got[0].Status)
	suite.Equal("Assigned", got[0].DeliveryStatus)
	suite.Equal("Sharma Kirana", got[0].ShopName)
	suite.Require().NotNil(got[0].ShopLocation)
	suite.True(decimal.RequireFromString("245").Equal(got[0].TotalAmount))
}

func (suite *QueryHandlersTestSuite) TestGetEligibleAgents_FiltersLikeAssignment() {
	available := suite.agent(agent.Available, 0)
	busy := suite.agent(agent.Busy, 3)
	suite.agent(agent.Busy, agent.MaxConcurrentDeliveries)
	suite.agent(agent.Offline, 0)

	got, err := queries.NewGetEligibleAgentsQueryHandler(suite.db).
		Handle(context.Background(), queries.NewGetEligibleAgentsQuery())

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	ids := []string{got[0].ID.String(), got[1].ID.String()}
	suite.ElementsMatch([]string{available.ID().String(), busy.ID().String()}, ids)
	suite.Less(ids[0], ids[1])
}

func (suite *QueryHandlersTestSuite) TestGetBulkOrder_TotalsAndWindow() {
	// Given an apartment with an evening window and a bulk order with two families
	apt := suite.apartment()
	b, err := bulkorder.NewBulkOrder(apt.ID(), mondayEvening, apt.Windows()[0], decimal.RequireFromString("20"), 2*time.Hour)
	suite.Require().NoError(err)
	for range 2 {
		p, err := bulkorder.ParticipantFromOrder(suite.readyOrder(mondayEvening), mondayEvening)
		suite.Require().NoError(err)
		suite.Require().NoError(b.Join(p, mondayEvening))
	}
	suite.save(func(uow ports.UnitOfWork) error {
		return uow.BulkOrderRepository().Add(context.Background(), b)
	})
	apartments := apartmentrepo.NewGormApartmentRepository(suite.db)
	query, err := queries.NewGetBulkOrderQuery(b.Key())
	suite.Require().NoError(err)

	suite.Run("while the window is open", func() {
		h := queries.NewGetBulkOrderQueryHandler(suite.db, apartments, kernel.FixedClock(mondayEvening))

		got, err := h.Handle(context.Background(), query)

		suite.Require().NoError(err)
		suite.Equal(b.Key(), got.Key)
		suite.Equal("Pending", got.Status)
		suite.Equal(2, got.TotalFamilies)
		suite.Equal(4, got.TotalItems)
		suite.True(decimal.RequireFromString("490").Equal(got.TotalAmount))
		suite.Equal("Evening", got.DeliverySlot)
		suite.Require().NotNil(got.Window)
		suite.Equal("18:00", got.Window.Start)
		suite.Equal(30*time.Minute, got.TimeRemaining)
	})

	suite.Run("after the window closed", func() {
		h := queries.NewGetBulkOrderQueryHandler(suite.db, apartments, kernel.FixedClock(mondayEvening.Add(time.Hour)))

		got, err := h.Handle(context.Background(), query)

		suite.Require().NoError(err)
		suite.Nil(got.Window)
		suite.Zero(got.TimeRemaining)
	})

	suite.Run("an earlier day's order has no window during today's", func() {
		nextMonday := mondayEvening.AddDate(0, 0, 7)
		h := queries.NewGetBulkOrderQueryHandler(suite.db, apartments, kernel.FixedClock(nextMonday))

		got, err := h.Handle(context.Background(), query)

		suite.Require().NoError(err)
		suite.Equal(2, got.TotalFamilies)
		suite.Nil(got.Window)
		suite.Zero(got.TimeRemaining)
	})

	suite.Run("unknown key", func() {
		h := queries.NewGetBulkOrderQueryHandler(suite.db, apartments, kernel.FixedClock(mondayEvening))
		missing, _ := queries.NewGetBulkOrderQuery(kernel.NewUUID().String() + ":2026-10-12")

		_, err := h.Handle(context.Background(), missing)

		suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	})
}

func (suite *QueryHandlersTestSuite) save(write func(uow ports.UnitOfWork) error) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	suite.Require().NoError(write(uow))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *QueryHandlersTestSuite) readyOrder(at time.Time) *order.Order {
	atta, err := order.NewItem("sku-1", "Atta 5kg", 2, decimal.RequireFromString("122.50"))
	suite.Require().NoError(err)
	loc, err := kernel.NewLocation(12.9716, 77.5946)
	suite.Require().NoError(err)
	shop, err := order.NewShopSnapshot("Sharma Kirana", "12 MG Road", &loc)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), order.PaymentUPI,
		[]order.Item{atta}, decimal.RequireFromString("245"), shop, "B-204", at)
	suite.Require().NoError(err)
	for _, s := range []order.Status{order.StatusAccepted, order.StatusPreparing, order.StatusReadyForPickup} {
		suite.Require().NoError(o.AdvanceStatus(s, at))
	}
	return o
}

func (suite *QueryHandlersTestSuite) agent(status agent.Status, active int) *agent.Agent {
	a, err := agent.RestoreAgent(kernel.NewUUID(), "Ravi", status, active, nil, nil, 0)
	suite.Require().NoError(err)
	suite.save(func(uow ports.UnitOfWork) error {
		return uow.AgentRepository().Add(context.Background(), a)
	})
	return a
}

func (suite *QueryHandlersTestSuite) apartment() *apartment.Apartment {
	start, err := kernel.NewTimeOfDay(18, 0, 0)
	suite.Require().NoError(err)
	end, err := kernel.NewTimeOfDay(19, 0, 0)
	suite.Require().NoError(err)
	w, err := apartment.NewWindow(kernel.NewUUID(), "Evening", start, end, []time.Weekday{time.Monday}, true)
	suite.Require().NoError(err)
	apt, err := apartment.NewApartment(kernel.NewUUID(), "Lake View", "Sector 4", nil, 2, 100, 40, true,
		[]apartment.Window{w})
	suite.Require().NoError(err)
	suite.save(func(uow ports.UnitOfWork) error {
		return uow.ApartmentRepository().Add(context.Background(), apt)
	})
	return apt
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
