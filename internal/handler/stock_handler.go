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

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/stock", middleware.RequireRole(model.RoleAdmin, model.RoleEmployee))
	{
		stock.POST("/transactions", h.CreateTransaction)
		stock.GET("/products/:id/transactions", h.ListByProduct)
	}
}

// CreateTransaction handles POST /stock/transactions for manual imports,
// exports and adjustments. Order-driven movements are created by the order
// endpoints, not here.
// @Summary      Create stock transaction
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateStockTxRequest  true  "Stock Transaction Payload"
// @Success      201      {object}  response.Response{data=service.StockTxResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response  "Insufficient stock"
// @Router       /stock/transactions [post]
func (h *StockHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateStockTxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.stockService.CreateTransaction(c.Request.Context(), actorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// ListByProduct handles GET /stock/products/:id/transactions, newest first
// @Summary      List stock transactions of a product
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Product ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Items per page"
// @Success      200    {object}  response.Response{data=object}
// @Failure      404    {object}  response.Response
// @Router       /stock/products/{id}/transactions [get]
func (h *StockHandler) ListByProduct(c *gin.Context) {
	p := pagination.Parse(c)

	txs, total, err := h.stockService.ListByProduct(c.Request.Context(), c.Param("id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, txs, p.Page, p.Limit, total))
}
