package handler

import (
	"net/http"

	"salesdesk-backend/internal/middleware"
	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/service"
	"salesdesk-backend/pkg/pagination"
	"salesdesk-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService service.AgentService
}

func NewAgentHandler(agentService service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AgentHandler) RegisterRoutes(router *gin.RouterGroup) {
	agents := router.Group("/agents", middleware.RequireRole(model.RoleAdmin, model.RoleEmployee))
	{
		agents.GET("", h.ListAgents)
		agents.GET("/:id", h.GetAgent)
		agents.POST("", h.CreateAgent)
		agents.PUT("/:id", h.UpdateAgent)
		agents.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteAgent)
		agents.POST("/:id/recompute", middleware.RequireRole(model.RoleAdmin), h.RecomputeAggregates)
	}
}

// ListAgents handles GET /agents with pagination and name/code search
// @Summary      List agents
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Search by name, code or phone"
// @Success      200     {object}  response.Response{data=object}
// @Router       /agents [get]
func (h *AgentHandler) ListAgents(c *gin.Context) {
	p := pagination.Parse(c)

	agents, total, err := h.agentService.GetAgents(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch agents"))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, agents, p.Page, p.Limit, total))
}

// GetAgent handles GET /agents/:id
// @Summary      Get agent by ID
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  response.Response{data=service.AgentResponse}
// @Failure      404  {object}  response.Response
// @Router       /agents/{id} [get]
func (h *AgentHandler) GetAgent(c *gin.Context) {
	agent, err := h.agentService.GetAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, agent))
}

// CreateAgent handles POST /agents
// @Summary      Create agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateAgentRequest  true  "Create Agent Payload"
// @Success      201      {object}  response.Response{data=service.AgentResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /agents [post]
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req service.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), actorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, agent))
}

// UpdateAgent handles PUT /agents/:id
// @Summary      Update agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Agent ID"
// @Param        payload  body      service.UpdateAgentRequest  true  "Update Agent Payload"
// @Success      200      {object}  response.Response{data=service.AgentResponse}
// @Failure      404      {object}  response.Response
// @Router       /agents/{id} [put]
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	var req service.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	agent, err := h.agentService.UpdateAgent(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, agent))
}

// DeleteAgent handles DELETE /agents/:id (soft delete)
// @Summary      Delete agent
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /agents/{id} [delete]
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	if err := h.agentService.DeleteAgent(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Agent deleted successfully"))
}

// RecomputeAggregates rebuilds the agent's denormalized order counters
// from the orders table
// @Summary      Recompute agent aggregates
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  response.Response{data=service.AgentResponse}
// @Failure      404  {object}  response.Response
// @Router       /agents/{id}/recompute [post]
func (h *AgentHandler) RecomputeAggregates(c *gin.Context) {
	agent, err := h.agentService.RecomputeAggregates(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, agent))
}
