package http

import (
	"net/http"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/application/usecases/queries"
	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateAgent handles POST /api/v1/agents - registers a delivery agent.
func (s *Server) CreateAgent(c echo.Context) error {
	var req NewAgentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCreateAgentCommand(kernel.NewUUID(), req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.CreateAgent.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.AgentID().String()})
}

func (s *Server) SetAgentAvailability(c echo.Context) error {
	agentID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	status, err := agent.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSetAgentAvailabilityCommand(agentID, status)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.SetAgentAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) UpdateAgentLocation(c echo.Context) error {
	agentID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req Location
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	loc, err := req.toDomain()
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateAgentLocationCommand(agentID, *loc)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.UpdateAgentLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetAgentOrders handles GET /api/v1/agents/:id/orders - the agent's bag.
func (s *Server) GetAgentOrders(c echo.Context) error {
	agentID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetAgentOrdersQuery(agentID)
	if err != nil {
		return s.fail(c, err)
	}

	orders, err := s.h.GetAgentOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]AgentOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = agentOrderView(o)
	}
	return c.JSON(http.StatusOK, response)
}

// GetEligibleAgents handles GET /api/v1/agents/eligible.
func (s *Server) GetEligibleAgents(c echo.Context) error {
	agents, err := s.h.GetEligibleAgents.Handle(c.Request().Context(), queries.NewGetEligibleAgentsQuery())
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]AgentResponse, len(agents))
	for i, a := range agents {
		response[i] = AgentResponse{
			ID:                a.ID.String(),
			Name:              a.Name,
			Status:            a.Status,
			ActiveDeliveries:  a.ActiveDeliveries,
			Location:          locationView(a.Location),
			LocationUpdatedAt: a.LocationUpdatedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}
