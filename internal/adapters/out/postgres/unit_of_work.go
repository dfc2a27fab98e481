// Package postgres implements the persistence ports on top of GORM and
// PostgreSQL.
//
// A GormUnitOfWork wraps one database transaction. Repositories obtained from
// it share that transaction and register every aggregate they write, so the
// unit of work can publish the recorded domain events once the transaction
// has committed.
package postgres

import (
	"context"
	"log/slog"

	"kirana/internal/adapters/out/postgres/agentrepo"
	"kirana/internal/adapters/out/postgres/apartmentrepo"
	"kirana/internal/adapters/out/postgres/bulkorderrepo"
	"kirana/internal/adapters/out/postgres/orderrepo"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        string
	Aggregate kernel.EventSource
}

// GormUnitOfWorkFactory creates GormUnitOfWork instances sharing one
// connection pool, event publisher and logger.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory wires the factory. A nil publisher drops events and
// a nil logger falls back to slog.Default.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit-of-work"),
	}
}

// Create returns a fresh unit of work with no open transaction.
// Each command handler invocation gets its own instance; instances are not
// safe for concurrent use.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create without the interface conversion, for adapters that
// narrow the unit of work to the repositories they need.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork implements ports.UnitOfWork.
//
// Lifecycle:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, id)
//	...
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err // a conflict here means the whole operation should be retried
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction,
// which the deferred call above ignores.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. Calling it again while a transaction is open
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then publishes the events of every
// tracked aggregate. A failed publish is logged and does not undo the commit.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback aborts the transaction and forgets tracked aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AgentRepository() ports.AgentRepository {
	return agentrepo.NewGormAgentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ApartmentRepository() ports.ApartmentRepository {
	return apartmentrepo.NewGormApartmentRepository(uow.conn())
}

func (uow *GormUnitOfWork) BulkOrderRepository() ports.BulkOrderRepository {
	return bulkorderrepo.NewGormBulkOrderRepository(uow.conn(), uow)
}

// TrackAggregate registers a written aggregate for event publication.
// Tracking the same aggregate twice is harmless because PullEvents drains it.
func (uow *GormUnitOfWork) TrackAggregate(id string, aggregate kernel.EventSource) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	var events []kernel.Event
	for _, t := range tracked {
		events = append(events, t.Aggregate.PullEvents()...)
	}
	if len(events) == 0 || uow.publisher == nil {
		return
	}

	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "publish domain events",
			slog.Int("count", len(events)),
			slog.Any("error", err),
		)
	}
}
