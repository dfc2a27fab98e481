package apartmentrepo_test

import (
	"context"
	"testing"
	"time"

	"kirana/internal/adapters/out/postgres/apartmentrepo"
	"kirana/internal/adapters/out/postgres/pgtest"
	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type ApartmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *apartmentrepo.GormApartmentRepository
}

func (suite *ApartmentRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
}

func (suite *ApartmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.repository = apartmentrepo.NewGormApartmentRepository(suite.db)
}

func (suite *ApartmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ApartmentRepositoryIntegrationTestSuite) TestAdd_ThenGet_KeepsWindowOrder() {
	ctx := context.Background()
	evening := suite.window("Evening", "18:00", "19:00", time.Monday, time.Wednesday)
	morning := suite.window("", "07:30", "08:15:30", time.Saturday)
	loc, err := kernel.NewLocation(12.93, 77.62)
	suite.Require().NoError(err)
	apt, err := apartment.NewApartment(kernel.NewUUID(), "Lake View", "Sector 4", &loc, 2.5, 120, 48, true,
		[]apartment.Window{evening, morning})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, apt))
	got, err := suite.repository.Get(ctx, apt.ID())

	suite.Require().NoError(err)
	suite.Equal("Lake View", got.Name())
	suite.InDelta(2.5, got.DeliveryRadiusKm(), 1e-9)
	suite.Equal(120, got.TotalFamilies())
	suite.Equal(48, got.RegisteredFamilies())
	suite.True(got.IsActive())

	windows := got.Windows()
	suite.Require().Len(windows, 2)
	suite.Equal("Evening", windows[0].Label())
	suite.Equal([]time.Weekday{time.Monday, time.Wednesday}, windows[0].Days())
	suite.Equal(evening.Start(), windows[0].Start())
	suite.Equal("07:30-08:15:30", windows[1].Label())
	suite.Equal(morning.End(), windows[1].End())
}

func (suite *ApartmentRepositoryIntegrationTestSuite) TestAdd_Duplicate_ReturnsConflict() {
	ctx := context.Background()
	apt, err := apartment.NewApartment(kernel.NewUUID(), "Lake View", "", nil, 0, 10, 0, true, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, apt))

	err = suite.repository.Add(ctx, apt)

	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
}

func (suite *ApartmentRepositoryIntegrationTestSuite) TestGet_Unknown_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ApartmentRepositoryIntegrationTestSuite) window(label, start, end string, days ...time.Weekday) apartment.Window {
	s, err := kernel.ParseTimeOfDay(start)
	suite.Require().NoError(err)
	e, err := kernel.ParseTimeOfDay(end)
	suite.Require().NoError(err)
	w, err := apartment.NewWindow(kernel.NewUUID(), label, s, e, days, true)
	suite.Require().NoError(err)
	return w
}

func TestApartmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ApartmentRepositoryIntegrationTestSuite))
}
