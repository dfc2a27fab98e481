package http

import (
	"net/http"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders - accepts a placed order.
func (s *Server) CreateOrder(c echo.Context) error {
	var req NewOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := req.toCommand()
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.OrderID().String()})
}

// AdvanceOrderStatus handles POST /api/v1/orders/:id/status - moves the shop
// side of the order forward or cancels it. The response carries the agent
// bound automatically on ReadyForPickup.
func (s *Server) AdvanceOrderStatus(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(orderID, target)
	if err != nil {
		return s.fail(c, err)
	}
	state, err := s.h.AdvanceOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, orderStateView(state))
}

// AdvanceDeliveryStatus handles POST /api/v1/orders/:id/delivery-status. Only
// the agent bound to the order may call it.
func (s *Server) AdvanceDeliveryStatus(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req DeliveryStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	agentID, err := parseUUID("agentId", req.AgentID)
	if err != nil {
		return s.fail(c, err)
	}
	target, err := order.ParseDeliveryStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdvanceDeliveryStatusCommand(orderID, agentID, target, req.CodConfirmed)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.AdvanceDeliveryStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignAgent handles POST /api/v1/orders/:id/assignment - picks an agent
// with the requested strategy, scored when omitted.
func (s *Server) AssignAgent(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	strategy, err := services.ParseStrategy(req.Strategy)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignAgentCommand(orderID, strategy)
	if err != nil {
		return s.fail(c, err)
	}
	ctx := c.Request().Context()
	result, err := s.h.AssignAgent.Handle(ctx, cmd)
	s.metrics.RecordAssignment(ctx, "order", string(strategy), "api", err)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, assignmentView(result))
}

// ReassignAgent handles PUT /api/v1/orders/:id/agent - moves the order to
// another agent, freeing the previous one.
func (s *Server) ReassignAgent(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req ReassignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	agentID, err := parseUUID("agentId", req.AgentID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewReassignAgentCommand(orderID, agentID)
	if err != nil {
		return s.fail(c, err)
	}
	ctx := c.Request().Context()
	result, err := s.h.ReassignAgent.Handle(ctx, cmd)
	s.metrics.RecordAssignment(ctx, "order", "manual", "api", err)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, assignmentView(result))
}
