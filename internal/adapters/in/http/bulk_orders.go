package http

import (
	"net/http"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/application/usecases/queries"
	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// RegisterApartment handles POST /api/v1/apartments.
func (s *Server) RegisterApartment(c echo.Context) error {
	var req NewApartmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id := kernel.NewUUID()
	cmd, err := req.toCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.RegisterApartment.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id.String()})
}

// JoinBulkOrder handles POST /api/v1/apartments/:id/bulk-orders - adds an
// order to today's bulk order of the apartment, opening it if needed.
func (s *Server) JoinBulkOrder(c echo.Context) error {
	apartmentID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req JoinRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	orderID, err := parseUUID("orderId", req.OrderID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewJoinBulkOrderCommand(apartmentID, orderID)
	if err != nil {
		return s.fail(c, err)
	}
	ctx := c.Request().Context()
	result, err := s.h.JoinBulkOrder.Handle(ctx, cmd)
	s.metrics.RecordJoin(ctx, err)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, JoinResponse{
		Key:           result.Key,
		TotalFamilies: result.TotalFamilies,
		TotalItems:    result.TotalItems,
		TotalAmount:   result.TotalAmount,
	})
}

// GetBulkOrder handles GET /api/v1/bulk-orders/:key.
func (s *Server) GetBulkOrder(c echo.Context) error {
	query, err := queries.NewGetBulkOrderQuery(c.Param("key"))
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.GetBulkOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, bulkOrderView(result))
}

func (s *Server) AdvanceBulkOrderStatus(c echo.Context) error {
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	target, err := bulkorder.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdvanceBulkOrderStatusCommand(c.Param("key"), target)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.AdvanceBulkOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) AssignBulkOrderAgent(c echo.Context) error {
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	strategy, err := services.ParseStrategy(req.Strategy)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignBulkOrderAgentCommand(c.Param("key"), strategy)
	if err != nil {
		return s.fail(c, err)
	}
	ctx := c.Request().Context()
	agentID, err := s.h.AssignBulkOrderAgent.Handle(ctx, cmd)
	s.metrics.RecordAssignment(ctx, "bulk_order", string(strategy), "api", err)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, AssignmentResponse{AgentID: agentID.String()})
}
