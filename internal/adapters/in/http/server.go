// Package http exposes the fulfillment use cases over a JSON API served by
// echo.
package http

import (
	"context"
	"log/slog"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/application/usecases/queries"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/telemetry"

	"github.com/labstack/echo/v4"
)

// Use case ports. The application handlers satisfy them as they are; tests
// substitute fakes.
type (
	OrderCreator interface {
		Handle(ctx context.Context, command commands.CreateOrderCommand) error
	}
	OrderStatusAdvancer interface {
		Handle(ctx context.Context, command commands.AdvanceOrderStatusCommand) (commands.OrderState, error)
	}
	DeliveryStatusAdvancer interface {
		Handle(ctx context.Context, command commands.AdvanceDeliveryStatusCommand) error
	}
	AgentAssigner interface {
		Handle(ctx context.Context, command commands.AssignAgentCommand) (commands.Assignment, error)
	}
	AgentReassigner interface {
		Handle(ctx context.Context, command commands.ReassignAgentCommand) (commands.Assignment, error)
	}
	AgentCreator interface {
		Handle(ctx context.Context, command commands.CreateAgentCommand) error
	}
	AgentAvailabilitySetter interface {
		Handle(ctx context.Context, command commands.SetAgentAvailabilityCommand) error
	}
	AgentLocationUpdater interface {
		Handle(ctx context.Context, command commands.UpdateAgentLocationCommand) error
	}
	ApartmentRegistrar interface {
		Handle(ctx context.Context, command commands.RegisterApartmentCommand) error
	}
	BulkOrderJoiner interface {
		Handle(ctx context.Context, command commands.JoinBulkOrderCommand) (commands.JoinResult, error)
	}
	BulkOrderStatusAdvancer interface {
		Handle(ctx context.Context, command commands.AdvanceBulkOrderStatusCommand) error
	}
	BulkOrderAgentAssigner interface {
		Handle(ctx context.Context, command commands.AssignBulkOrderAgentCommand) (kernel.UUID, error)
	}

	AgentOrdersReader interface {
		Handle(ctx context.Context, query queries.GetAgentOrdersQuery) ([]queries.GetAgentOrdersQueryResponse, error)
	}
	EligibleAgentsReader interface {
		Handle(ctx context.Context, query queries.GetEligibleAgentsQuery) ([]queries.GetEligibleAgentsQueryResponse, error)
	}
	BulkOrderReader interface {
		Handle(ctx context.Context, query queries.GetBulkOrderQuery) (queries.GetBulkOrderQueryResponse, error)
	}
)

// Handlers bundles the use cases served by the API.
type Handlers struct {
	// Command handlers
	CreateOrder            OrderCreator
	AdvanceOrderStatus     OrderStatusAdvancer
	AdvanceDeliveryStatus  DeliveryStatusAdvancer
	AssignAgent            AgentAssigner
	ReassignAgent          AgentReassigner
	CreateAgent            AgentCreator
	SetAgentAvailability   AgentAvailabilitySetter
	UpdateAgentLocation    AgentLocationUpdater
	RegisterApartment      ApartmentRegistrar
	JoinBulkOrder          BulkOrderJoiner
	AdvanceBulkOrderStatus BulkOrderStatusAdvancer
	AssignBulkOrderAgent   BulkOrderAgentAssigner

	// Query handlers
	GetAgentOrders    AgentOrdersReader
	GetEligibleAgents EligibleAgentsReader
	GetBulkOrder      BulkOrderReader
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h       Handlers
	logger  *slog.Logger
	metrics telemetry.Metrics
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m telemetry.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, opts ...Option) *Server {
	s := &Server{
		h:      h,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("component", "http")
	return s
}

// Register mounts the API under /api/v1. mw applies to every route; mutating
// routes additionally get the idempotency middleware when one is given.
func (s *Server) Register(e *echo.Echo, idempotency echo.MiddlewareFunc, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1", mw...)

	writes := []echo.MiddlewareFunc{}
	if idempotency != nil {
		writes = append(writes, idempotency)
	}

	g.POST("/orders", s.CreateOrder, writes...)
	g.POST("/orders/:id/status", s.AdvanceOrderStatus, writes...)
	g.POST("/orders/:id/delivery-status", s.AdvanceDeliveryStatus, writes...)
	g.POST("/orders/:id/assignment", s.AssignAgent, writes...)
	g.PUT("/orders/:id/agent", s.ReassignAgent, writes...)

	g.POST("/agents", s.CreateAgent, writes...)
	g.GET("/agents/eligible", s.GetEligibleAgents)
	g.GET("/agents/:id/orders", s.GetAgentOrders)
	g.PUT("/agents/:id/availability", s.SetAgentAvailability, writes...)
	g.PUT("/agents/:id/location", s.UpdateAgentLocation, writes...)

	g.POST("/apartments", s.RegisterApartment, writes...)
	g.POST("/apartments/:id/bulk-orders", s.JoinBulkOrder, writes...)

	g.GET("/bulk-orders/:key", s.GetBulkOrder)
	g.POST("/bulk-orders/:key/status", s.AdvanceBulkOrderStatus, writes...)
	g.POST("/bulk-orders/:key/assignment", s.AssignBulkOrderAgent, writes...)
}
