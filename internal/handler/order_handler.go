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

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders", middleware.RequireRole(model.RoleAdmin, model.RoleEmployee))
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("", h.CreateOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.PATCH("/:id/payment", h.UpdatePaymentStatus)
	}
}

// ListOrders handles GET /orders with status, party and date-range filters
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page            query     int     false  "Page number"
// @Param        limit           query     int     false  "Items per page"
// @Param        status          query     string  false  "Filter by order status (active|cancelled)"
// @Param        payment_status  query     string  false  "Filter by payment status (pending|completed|debt)"
// @Param        customer_id     query     string  false  "Filter by customer"
// @Param        agent_id        query     string  false  "Filter by agent"
// @Param        from            query     string  false  "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param        to              query     string  false  "Created at or before (RFC3339 or YYYY-MM-DD)"
// @Success      200             {object}  response.Response{data=object}
// @Failure      400             {object}  response.Response
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)

	filter := service.OrderListFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		CustomerID:    c.Query("customer_id"),
		AgentID:       c.Query("agent_id"),
		From:          c.Query("from"),
		To:            c.Query("to"),
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), p.Page, p.Limit, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, p.Page, p.Limit, total))
}

// GetOrder handles GET /orders/:id with line items preloaded
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateOrder handles POST /orders. Totals are computed server-side and
// stock is exported atomically with the order; an order that would drive
// any product's stock negative is rejected whole.
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response  "Insufficient stock"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// CancelOrder handles POST /orders/:id/cancel. Cancelling restores the
// exported stock through compensating import transactions.
// @Summary      Cancel order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "Order is not active"
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdatePaymentStatus handles PATCH /orders/:id/payment, moving a pending
// payment to completed or debt
// @Summary      Update order payment status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Order ID"
// @Param        payload  body      service.UpdatePaymentStatusRequest  true  "New payment status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response  "Transition not allowed"
// @Router       /orders/{id}/payment [patch]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req service.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
