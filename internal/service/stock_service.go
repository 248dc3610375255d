package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/pricing"
	"salesdesk-backend/internal/repository"
	ws "salesdesk-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateStockTxRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=import export adjustment"`
	Quantity  int    `json:"quantity" binding:"required"` // signed for adjustment, positive for import/export
	UnitPrice string `json:"unit_price"`                  // decimal string; imports use it for avg price
	Note      string `json:"note"`
}

type StockTxResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	OrderID     *string `json:"order_id"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Note        string  `json:"note"`
	CreatedAt   string  `json:"created_at"`
}

// --- Interface ---

type StockService interface {
	CreateTransaction(ctx context.Context, userID string, req CreateStockTxRequest) (StockTxResponse, error)
	ListByProduct(ctx context.Context, productID string, page, limit int) ([]StockTxResponse, int64, error)
}

type stockService struct {
	productRepo        repository.ProductRepository
	stockTxRepo        repository.StockTxRepository
	auditRepo          repository.AuditRepository
	txManager          repository.TransactionManager
	hub                *ws.Hub
	allowNegativeStock bool
}

func NewStockService(
	productRepo repository.ProductRepository,
	stockTxRepo repository.StockTxRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	allowNegativeStock bool,
) StockService {
	return &stockService{
		productRepo:        productRepo,
		stockTxRepo:        stockTxRepo,
		auditRepo:          auditRepo,
		txManager:          txManager,
		hub:                hub,
		allowNegativeStock: allowNegativeStock,
	}
}

// --- Implementation ---

// CreateTransaction applies a manual stock movement. Imports and exports take
// a positive quantity and the type determines the sign; adjustments pass the
// signed delta directly. Imports additionally fold the unit price into the
// product's weighted average import price.
func (s *stockService) CreateTransaction(ctx context.Context, userID string, req CreateStockTxRequest) (StockTxResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return StockTxResponse{}, &pricing.ValidationError{Field: "product_id", Reason: err.Error()}
	}

	unitPrice := decimal.Zero
	if req.UnitPrice != "" {
		parsed, priceErr := decimal.NewFromString(req.UnitPrice)
		if priceErr != nil {
			return StockTxResponse{}, &pricing.ValidationError{Field: "unit_price", Reason: priceErr.Error()}
		}
		if parsed.IsNegative() {
			return StockTxResponse{}, &pricing.ValidationError{Field: "unit_price", Reason: "must not be negative"}
		}
		unitPrice = parsed
	}

	signedQty, err := signQuantity(req.Type, req.Quantity)
	if err != nil {
		return StockTxResponse{}, err
	}

	uid := parseUserID(userID)
	var created model.StockTransaction
	var lowStockAfter *model.Product

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, findErr := s.productRepo.FindByIDForUpdate(txCtx, productID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", req.ProductID, ErrNotFound)
			}
			return fmt.Errorf("failed to find product: %w", findErr)
		}

		stockBefore := product.CurrentStock
		stockAfter := stockBefore + signedQty
		if stockAfter < 0 && !s.allowNegativeStock {
			return fmt.Errorf("product %s (stock %d, requested %d): %w",
				product.Code, stockBefore, -signedQty, ErrInsufficientStock)
		}

		if stockErr := s.productRepo.UpdateStock(txCtx, product.ID, stockAfter); stockErr != nil {
			return fmt.Errorf("failed to update stock: %w", stockErr)
		}

		// Weighted average import price: (oldStock*oldAvg + qty*price) / newStock
		if req.Type == model.StockTxImport && unitPrice.IsPositive() && stockAfter > 0 {
			oldValue := product.AvgImportPrice.Mul(decimal.NewFromInt(int64(max(stockBefore, 0))))
			newValue := unitPrice.Mul(decimal.NewFromInt(int64(signedQty)))
			newAvg := oldValue.Add(newValue).Div(decimal.NewFromInt(int64(stockAfter))).Round(2)
			if avgErr := s.productRepo.UpdateAvgImportPrice(txCtx, product.ID, newAvg); avgErr != nil {
				return fmt.Errorf("failed to update average import price: %w", avgErr)
			}
		}

		stockTx := model.StockTransaction{
			ProductID:   product.ID,
			Type:        req.Type,
			Quantity:    signedQty,
			UnitPrice:   unitPrice,
			StockBefore: stockBefore,
			StockAfter:  stockAfter,
			Note:        req.Note,
			CreatedBy:   uid,
		}
		if txErr := s.stockTxRepo.Create(txCtx, &stockTx); txErr != nil {
			return fmt.Errorf("failed to record stock transaction: %w", txErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"product_code": product.Code,
			"quantity":     signedQty,
			"stock_after":  stockAfter,
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     auditActionForStockTx(req.Type),
			EntityID:   product.ID.String(),
			EntityName: product.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		if stockAfter <= product.MinStock {
			snapshot := *product
			snapshot.CurrentStock = stockAfter
			lowStockAfter = &snapshot
		}

		created = stockTx
		return nil
	})

	if err != nil {
		return StockTxResponse{}, err
	}

	if lowStockAfter != nil && s.hub != nil {
		payload, marshalErr := json.Marshal(OrderEvent{Event: "stock.low", Data: map[string]interface{}{
			"product_id":    lowStockAfter.ID.String(),
			"product_code":  lowStockAfter.Code,
			"current_stock": lowStockAfter.CurrentStock,
			"min_stock":     lowStockAfter.MinStock,
		}})
		if marshalErr == nil {
			s.hub.Broadcast <- payload
		}
	}

	return toStockTxResponse(created), nil
}

func (s *stockService) ListByProduct(ctx context.Context, productID string, page, limit int) ([]StockTxResponse, int64, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, 0, &pricing.ValidationError{Field: "product_id", Reason: err.Error()}
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	txs, total, err := s.stockTxRepo.ListByProduct(ctx, pid, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]StockTxResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, toStockTxResponse(tx))
	}

	return res, total, nil
}

// --- Helpers ---

func signQuantity(txType string, quantity int) (int, error) {
	switch txType {
	case model.StockTxImport:
		if quantity <= 0 {
			return 0, &pricing.ValidationError{Field: "quantity", Reason: "import quantity must be positive"}
		}
		return quantity, nil
	case model.StockTxExport:
		if quantity <= 0 {
			return 0, &pricing.ValidationError{Field: "quantity", Reason: "export quantity must be positive"}
		}
		return -quantity, nil
	case model.StockTxAdjustment:
		if quantity == 0 {
			return 0, &pricing.ValidationError{Field: "quantity", Reason: "adjustment quantity must be non-zero"}
		}
		return quantity, nil
	default:
		return 0, &pricing.ValidationError{Field: "type", Reason: "must be import, export or adjustment"}
	}
}

func auditActionForStockTx(txType string) string {
	switch txType {
	case model.StockTxImport:
		return model.ActionStockImport
	case model.StockTxExport:
		return model.ActionStockExport
	default:
		return model.ActionStockAdjust
	}
}

func toStockTxResponse(tx model.StockTransaction) StockTxResponse {
	res := StockTxResponse{
		ID:          tx.ID.String(),
		ProductID:   tx.ProductID.String(),
		Type:        tx.Type,
		Quantity:    tx.Quantity,
		UnitPrice:   tx.UnitPrice.StringFixed(2),
		StockBefore: tx.StockBefore,
		StockAfter:  tx.StockAfter,
		Note:        tx.Note,
		CreatedAt:   tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if tx.OrderID != nil {
		id := tx.OrderID.String()
		res.OrderID = &id
	}
	return res
}
