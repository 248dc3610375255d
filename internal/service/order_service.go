package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/pricing"
	"salesdesk-backend/internal/repository"
	ws "salesdesk-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice string `json:"unit_price"` // decimal string; empty = product's current selling price
}

type CreateOrderRequest struct {
	CustomerID    string             `json:"customer_id"`
	AgentID       string             `json:"agent_id"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	VATRate       string             `json:"vat_rate"`     // fraction as decimal string, e.g. "0.1"
	ShippingFee   string             `json:"shipping_fee"` // decimal string
	PaymentStatus string             `json:"payment_status" binding:"omitempty,oneof=pending completed debt"`
	PaymentMethod string             `json:"payment_method" binding:"omitempty,oneof=cash transfer card"`
	Note          string             `json:"note"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=completed debt"`
}

type OrderListFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    string
	AgentID       string
	From          string // RFC3339 or YYYY-MM-DD, inclusive lower bound
	To            string // RFC3339 or YYYY-MM-DD, inclusive upper bound
}

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	OrderCode     string              `json:"order_code"`
	CustomerID    *string             `json:"customer_id"`
	CustomerName  string              `json:"customer_name,omitempty"`
	AgentID       *string             `json:"agent_id"`
	AgentName     string              `json:"agent_name,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      string              `json:"subtotal"`
	VATRate       string              `json:"vat_rate"`
	VATAmount     string              `json:"vat_amount"`
	ShippingFee   string              `json:"shipping_fee"`
	TotalAmount   string              `json:"total_amount"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	Note          string              `json:"note"`
	CreatedAt     string              `json:"created_at"`
}

// OrderEvent is the websocket payload broadcast after stock-affecting commits
type OrderEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (OrderResponse, error)
	CancelOrder(ctx context.Context, userID string, id string) (OrderResponse, error)
	UpdatePaymentStatus(ctx context.Context, userID string, id string, req UpdatePaymentStatusRequest) (OrderResponse, error)
	GetOrder(ctx context.Context, id string) (OrderResponse, error)
	ListOrders(ctx context.Context, page, limit int, filter OrderListFilter) ([]OrderResponse, int64, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	agentRepo    repository.AgentRepository
	stockTxRepo  repository.StockTxRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	// allowNegativeStock lets exports drive stock below zero instead of
	// failing with ErrInsufficientStock (policy switch, off by default)
	allowNegativeStock bool
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	agentRepo repository.AgentRepository,
	stockTxRepo repository.StockTxRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	allowNegativeStock bool,
) OrderService {
	return &orderService{
		orderRepo:          orderRepo,
		productRepo:        productRepo,
		customerRepo:       customerRepo,
		agentRepo:          agentRepo,
		stockTxRepo:        stockTxRepo,
		auditRepo:          auditRepo,
		txManager:          txManager,
		hub:                hub,
		allowNegativeStock: allowNegativeStock,
	}
}

// --- Implementation ---

func (s *orderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (OrderResponse, error) {
	vatRate, err := parseDecimalField(req.VATRate, "vat_rate")
	if err != nil {
		return OrderResponse{}, err
	}
	shippingFee, err := parseDecimalField(req.ShippingFee, "shipping_fee")
	if err != nil {
		return OrderResponse{}, err
	}

	var created model.Order
	var lowStock []model.Product

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		customerID, customer, resolveErr := s.resolveCustomer(txCtx, req.CustomerID)
		if resolveErr != nil {
			return resolveErr
		}
		agentID, agent, resolveErr := s.resolveAgent(txCtx, req.AgentID)
		if resolveErr != nil {
			return resolveErr
		}

		// Lock every product row up front; concurrent creations against the
		// same product serialize here so stock cannot be oversold. Each
		// product is locked once and duplicate lines share the locked row,
		// so the decrement loop below sees the running stock across lines.
		type lockedLine struct {
			product   *model.Product
			quantity  int
			unitPrice decimal.Decimal
		}
		lines := make([]lockedLine, 0, len(req.Items))
		pricingLines := make([]pricing.Line, 0, len(req.Items))
		locked := make(map[uuid.UUID]*model.Product, len(req.Items))

		for _, itemReq := range req.Items {
			pid, parseErr := uuid.Parse(itemReq.ProductID)
			if parseErr != nil {
				return &pricing.ValidationError{Field: "product_id", Reason: parseErr.Error()}
			}
			product, ok := locked[pid]
			if !ok {
				var findErr error
				product, findErr = s.productRepo.FindByIDForUpdate(txCtx, pid)
				if findErr != nil {
					if errors.Is(findErr, gorm.ErrRecordNotFound) {
						return fmt.Errorf("product %s: %w", itemReq.ProductID, ErrNotFound)
					}
					return fmt.Errorf("failed to find product %s: %w", itemReq.ProductID, findErr)
				}
				locked[pid] = product
			}
			if !product.IsActive {
				return &pricing.ValidationError{Field: "product_id", Reason: fmt.Sprintf("product %s is inactive", product.Code)}
			}

			unitPrice := product.SellingPrice
			if itemReq.UnitPrice != "" {
				parsed, priceErr := decimal.NewFromString(itemReq.UnitPrice)
				if priceErr != nil {
					return &pricing.ValidationError{Field: "unit_price", Reason: priceErr.Error()}
				}
				unitPrice = parsed
			}

			lines = append(lines, lockedLine{product: product, quantity: itemReq.Quantity, unitPrice: unitPrice})
			pricingLines = append(pricingLines, pricing.Line{Quantity: itemReq.Quantity, UnitPrice: unitPrice})
		}

		// Check availability against the summed demand per product, so an
		// order repeating a product cannot sneak each line past the stock
		// level individually.
		if !s.allowNegativeStock {
			required := make(map[uuid.UUID]int, len(locked))
			for _, line := range lines {
				required[line.product.ID] += line.quantity
			}
			for id, product := range locked {
				if required[id] > product.CurrentStock {
					return fmt.Errorf("product %s (stock %d, requested %d): %w",
						product.Code, product.CurrentStock, required[id], ErrInsufficientStock)
				}
			}
		}

		totals, totalsErr := pricing.ComputeOrderTotals(pricingLines, vatRate, shippingFee)
		if totalsErr != nil {
			return totalsErr
		}

		orderCode, codeErr := s.orderRepo.NextOrderCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate order code: %w", codeErr)
		}

		paymentStatus := req.PaymentStatus
		if paymentStatus == "" {
			paymentStatus = model.PaymentStatusPending
		}
		paymentMethod := req.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = model.PaymentMethodCash
		}

		uid := parseUserID(userID)
		order := model.Order{
			OrderCode:     orderCode,
			CustomerID:    customerID,
			AgentID:       agentID,
			Subtotal:      totals.Subtotal,
			VATRate:       vatRate,
			VATAmount:     totals.VATAmount,
			ShippingFee:   shippingFee,
			TotalAmount:   totals.Total,
			PaymentStatus: paymentStatus,
			PaymentMethod: paymentMethod,
			Status:        model.OrderStatusActive,
			Note:          req.Note,
			CreatedBy:     uid,
		}
		if createErr := s.orderRepo.Create(txCtx, &order); createErr != nil {
			return fmt.Errorf("failed to create order: %w", createErr)
		}

		for i, line := range lines {
			item := &model.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.product.ID,
				ProductName: line.product.Name, // snapshot, later renames don't touch it
				Quantity:    line.quantity,
				UnitPrice:   line.unitPrice,
				LineTotal:   totals.LineTotals[i],
			}
			if itemErr := s.orderRepo.CreateItem(txCtx, item); itemErr != nil {
				return fmt.Errorf("failed to create order item: %w", itemErr)
			}
		}

		// Apply the stock decrement with before/after snapshots
		for _, line := range lines {
			stockBefore := line.product.CurrentStock
			stockAfter := stockBefore - line.quantity

			if stockErr := s.productRepo.UpdateStock(txCtx, line.product.ID, stockAfter); stockErr != nil {
				return fmt.Errorf("failed to update stock for %s: %w", line.product.Code, stockErr)
			}
			// shared with any later line on the same product
			line.product.CurrentStock = stockAfter

			stockTx := &model.StockTransaction{
				ProductID:   line.product.ID,
				OrderID:     &order.ID,
				Type:        model.StockTxExport,
				Quantity:    -line.quantity,
				UnitPrice:   line.unitPrice,
				StockBefore: stockBefore,
				StockAfter:  stockAfter,
				CreatedBy:   uid,
			}
			if txErr := s.stockTxRepo.Create(txCtx, stockTx); txErr != nil {
				return fmt.Errorf("failed to record stock transaction: %w", txErr)
			}

			if stockAfter <= line.product.MinStock {
				snapshot := *line.product
				snapshot.CurrentStock = stockAfter
				lowStock = append(lowStock, snapshot)
			}
		}

		if customerID != nil {
			if aggErr := s.customerRepo.AddOrderAggregate(txCtx, *customerID, 1, totals.Total); aggErr != nil {
				return fmt.Errorf("failed to update customer aggregates: %w", aggErr)
			}
		}
		if agentID != nil {
			if aggErr := s.agentRepo.AddOrderAggregate(txCtx, *agentID, 1, totals.Total); aggErr != nil {
				return fmt.Errorf("failed to update agent aggregates: %w", aggErr)
			}
		}

		entityName := order.OrderCode
		if customer != nil {
			entityName = order.OrderCode + " / " + customer.Name
		} else if agent != nil {
			entityName = order.OrderCode + " / " + agent.Name
		}
		details, _ := json.Marshal(map[string]interface{}{
			"order_code":   order.OrderCode,
			"total_amount": totals.Total.StringFixed(2),
			"item_count":   len(lines),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCreateOrder,
			EntityID:   order.ID.String(),
			EntityName: entityName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		created = order
		return nil
	})

	if err != nil {
		return OrderResponse{}, err
	}

	s.broadcast("order.created", map[string]interface{}{
		"order_id":   created.ID.String(),
		"order_code": created.OrderCode,
		"total":      created.TotalAmount.StringFixed(2),
	})
	for _, p := range lowStock {
		s.broadcast("stock.low", map[string]interface{}{
			"product_id":    p.ID.String(),
			"product_code":  p.Code,
			"current_stock": p.CurrentStock,
			"min_stock":     p.MinStock,
		})
	}

	return s.GetOrder(ctx, created.ID.String())
}

// CancelOrder flips an active order to cancelled and restores each line's
// quantity via compensating import transactions. Create-then-cancel leaves
// every product's stock exactly where it started.
func (s *orderService) CancelOrder(ctx context.Context, userID string, id string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}

	uid := parseUserID(userID)
	var cancelled *model.Order

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, findErr := s.orderRepo.FindByIDWithItems(txCtx, orderID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load order: %w", findErr)
		}
		if order.Status != model.OrderStatusActive {
			return fmt.Errorf("order is already %s: %w", order.Status, ErrInvalidTransition)
		}

		for _, item := range order.Items {
			product, lockErr := s.productRepo.FindByIDForUpdate(txCtx, item.ProductID)
			if lockErr != nil {
				return fmt.Errorf("failed to lock product %s: %w", item.ProductID, lockErr)
			}

			stockBefore := product.CurrentStock
			stockAfter := stockBefore + item.Quantity
			if stockErr := s.productRepo.UpdateStock(txCtx, product.ID, stockAfter); stockErr != nil {
				return fmt.Errorf("failed to restore stock for %s: %w", product.Code, stockErr)
			}

			stockTx := &model.StockTransaction{
				ProductID:   product.ID,
				OrderID:     &order.ID,
				Type:        model.StockTxImport,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				StockBefore: stockBefore,
				StockAfter:  stockAfter,
				Note:        "order cancellation",
				CreatedBy:   uid,
			}
			if txErr := s.stockTxRepo.Create(txCtx, stockTx); txErr != nil {
				return fmt.Errorf("failed to record stock transaction: %w", txErr)
			}
		}

		if statusErr := s.orderRepo.UpdateStatus(txCtx, order.ID, model.OrderStatusCancelled); statusErr != nil {
			return fmt.Errorf("failed to update order status: %w", statusErr)
		}

		if order.CustomerID != nil {
			if aggErr := s.customerRepo.AddOrderAggregate(txCtx, *order.CustomerID, -1, order.TotalAmount.Neg()); aggErr != nil {
				return fmt.Errorf("failed to update customer aggregates: %w", aggErr)
			}
		}
		if order.AgentID != nil {
			if aggErr := s.agentRepo.AddOrderAggregate(txCtx, *order.AgentID, -1, order.TotalAmount.Neg()); aggErr != nil {
				return fmt.Errorf("failed to update agent aggregates: %w", aggErr)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"order_code":   order.OrderCode,
			"total_amount": order.TotalAmount.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCancelOrder,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		cancelled = order
		return nil
	})

	if err != nil {
		return OrderResponse{}, err
	}

	s.broadcast("order.cancelled", map[string]interface{}{
		"order_id":   cancelled.ID.String(),
		"order_code": cancelled.OrderCode,
	})

	return s.GetOrder(ctx, id)
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, userID string, id string, req UpdatePaymentStatusRequest) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}

	uid := parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, findErr := s.orderRepo.FindByIDWithItems(txCtx, orderID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load order: %w", findErr)
		}
		if order.Status != model.OrderStatusActive {
			return fmt.Errorf("order is %s: %w", order.Status, ErrInvalidTransition)
		}
		// completed is terminal; pending and debt can both settle
		if order.PaymentStatus == model.PaymentStatusCompleted {
			return fmt.Errorf("payment already completed: %w", ErrInvalidTransition)
		}
		if order.PaymentStatus == req.PaymentStatus {
			return fmt.Errorf("payment is already %s: %w", order.PaymentStatus, ErrInvalidTransition)
		}

		if updateErr := s.orderRepo.UpdatePaymentStatus(txCtx, order.ID, req.PaymentStatus); updateErr != nil {
			return fmt.Errorf("failed to update payment status: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"order_code": order.OrderCode,
			"from":       order.PaymentStatus,
			"to":         req.PaymentStatus,
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionUpdatePayment,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})

	if err != nil {
		return OrderResponse{}, err
	}

	return s.GetOrder(ctx, id)
}

func (s *orderService) GetOrder(ctx context.Context, id string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return OrderResponse{}, fmt.Errorf("failed to load order: %w", err)
	}

	return toOrderResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	repoFilter := repository.OrderFilter{
		Status:        filter.Status,
		PaymentStatus: filter.PaymentStatus,
	}
	if filter.CustomerID != "" {
		if parsed, err := uuid.Parse(filter.CustomerID); err == nil {
			repoFilter.CustomerID = &parsed
		}
	}
	if filter.AgentID != "" {
		if parsed, err := uuid.Parse(filter.AgentID); err == nil {
			repoFilter.AgentID = &parsed
		}
	}
	if filter.From != "" {
		parsed, err := parseDateBound(filter.From, false)
		if err != nil {
			return nil, 0, &pricing.ValidationError{Field: "from", Reason: err.Error()}
		}
		repoFilter.From = &parsed
	}
	if filter.To != "" {
		parsed, err := parseDateBound(filter.To, true)
		if err != nil {
			return nil, 0, &pricing.ValidationError{Field: "to", Reason: err.Error()}
		}
		repoFilter.To = &parsed
	}

	orders, total, err := s.orderRepo.List(ctx, page, limit, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}

	return res, total, nil
}

// --- Helpers ---

func (s *orderService) resolveCustomer(ctx context.Context, raw string) (*uuid.UUID, *model.Customer, error) {
	if raw == "" {
		return nil, nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, nil, &pricing.ValidationError{Field: "customer_id", Reason: err.Error()}
	}
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("customer %s: %w", raw, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &id, customer, nil
}

func (s *orderService) resolveAgent(ctx context.Context, raw string) (*uuid.UUID, *model.Agent, error) {
	if raw == "" {
		return nil, nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, nil, &pricing.ValidationError{Field: "agent_id", Reason: err.Error()}
	}
	agent, err := s.agentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("agent %s: %w", raw, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to find agent: %w", err)
	}
	return &id, agent, nil
}

func (s *orderService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(OrderEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func parseDecimalField(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &pricing.ValidationError{Field: field, Reason: err.Error()}
	}
	return parsed, nil
}

// parseDateBound accepts RFC3339 timestamps or bare dates. A bare date used
// as the upper bound is pushed to the end of that day so the range stays
// inclusive.
func parseDateBound(raw string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", raw)
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

func parseUserID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}

func toOrderResponse(order *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}

	res := OrderResponse{
		ID:            order.ID.String(),
		OrderCode:     order.OrderCode,
		Items:         items,
		Subtotal:      order.Subtotal.StringFixed(2),
		VATRate:       order.VATRate.String(),
		VATAmount:     order.VATAmount.StringFixed(2),
		ShippingFee:   order.ShippingFee.StringFixed(2),
		TotalAmount:   order.TotalAmount.StringFixed(2),
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		Note:          order.Note,
		CreatedAt:     order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if order.CustomerID != nil {
		id := order.CustomerID.String()
		res.CustomerID = &id
	}
	if order.Customer != nil {
		res.CustomerName = order.Customer.Name
	}
	if order.AgentID != nil {
		id := order.AgentID.String()
		res.AgentID = &id
	}
	if order.Agent != nil {
		res.AgentName = order.Agent.Name
	}

	return res
}
