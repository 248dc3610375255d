package handler

import (
	"net/http"
	"time"

	"salesdesk-backend/internal/middleware"
	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/service"
	"salesdesk-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/statistics", middleware.RequireRole(model.RoleAdmin, model.RoleEmployee))
	{
		stats.GET("/dashboard", h.GetDashboard)
	}
}

// GetDashboard handles GET /statistics/dashboard. Each card compares the
// current month to date against the previous full calendar month.
// @Summary      Dashboard statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.DashboardResponse}
// @Failure      500  {object}  response.Response
// @Router       /statistics/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.statisticsService.GetDashboard(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute dashboard statistics"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}
