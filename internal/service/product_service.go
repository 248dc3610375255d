package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/pricing"
	"salesdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateProductRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	CategoryID   string `json:"category_id"`
	Unit         string `json:"unit" binding:"required"`
	MinStock     int    `json:"min_stock" binding:"omitempty,min=0"`
	SellingPrice string `json:"selling_price" binding:"required"`
}

type UpdateProductRequest struct {
	Name         string `json:"name" binding:"required"`
	CategoryID   string `json:"category_id"`
	Unit         string `json:"unit" binding:"required"`
	MinStock     int    `json:"min_stock" binding:"omitempty,min=0"`
	SellingPrice string `json:"selling_price" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

type ProductResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	CategoryID     string `json:"category_id,omitempty"`
	CategoryName   string `json:"category_name,omitempty"`
	Unit           string `json:"unit"`
	CurrentStock   int    `json:"current_stock"`
	MinStock       int    `json:"min_stock"`
	AvgImportPrice string `json:"avg_import_price"`
	SellingPrice   string `json:"selling_price"`
	IsActive       bool   `json:"is_active"`
}

// --- Interface ---

type ProductService interface {
	GetProducts(ctx context.Context, page, limit int, search, categoryID string) ([]ProductResponse, int64, error)
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	GetLowStockProducts(ctx context.Context) ([]ProductResponse, error)
	CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, userID string, id string) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *productService) GetProducts(ctx context.Context, page, limit int, search, categoryID string) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var catID *uuid.UUID
	if categoryID != "" {
		parsed, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, 0, &pricing.ValidationError{Field: "category_id", Reason: err.Error()}
		}
		catID = &parsed
	}

	products, total, err := s.productRepo.List(ctx, page, limit, search, catID)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}

	return res, total, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return ProductResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toProductResponse(product), nil
}

func (s *productService) GetLowStockProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}

	return res, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (ProductResponse, error) {
	sellingPrice, err := decimal.NewFromString(req.SellingPrice)
	if err != nil {
		return ProductResponse{}, &pricing.ValidationError{Field: "selling_price", Reason: err.Error()}
	}
	if sellingPrice.IsNegative() {
		return ProductResponse{}, &pricing.ValidationError{Field: "selling_price", Reason: "must not be negative"}
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return ProductResponse{}, err
	}

	if _, findErr := s.productRepo.FindByCode(ctx, req.Code); findErr == nil {
		return ProductResponse{}, fmt.Errorf("product code %s: %w", req.Code, ErrConflict)
	}

	product := model.Product{
		Code:         req.Code,
		Name:         req.Name,
		CategoryID:   categoryID,
		Unit:         req.Unit,
		MinStock:     req.MinStock,
		SellingPrice: sellingPrice,
		IsActive:     true,
		CurrentStock: 0, // stock only enters through stock transactions
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.productRepo.Create(txCtx, &product); createErr != nil {
			return fmt.Errorf("failed to create product: %w", createErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateProduct,
			EntityID:   product.ID.String(),
			EntityName: product.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})

	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(&product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	sellingPrice, err := decimal.NewFromString(req.SellingPrice)
	if err != nil {
		return ProductResponse{}, &pricing.ValidationError{Field: "selling_price", Reason: err.Error()}
	}
	if sellingPrice.IsNegative() {
		return ProductResponse{}, &pricing.ValidationError{Field: "selling_price", Reason: "must not be negative"}
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return ProductResponse{}, fmt.Errorf("database error: %w", err)
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return ProductResponse{}, err
	}

	// Code and CurrentStock are deliberately not updatable here
	product.Name = req.Name
	product.CategoryID = categoryID
	product.Unit = req.Unit
	product.MinStock = req.MinStock
	product.SellingPrice = sellingPrice
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.productRepo.Update(txCtx, product); updateErr != nil {
			return fmt.Errorf("failed to update product: %w", updateErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateProduct,
			EntityID:   product.ID.String(),
			EntityName: product.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})

	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, userID string, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.productRepo.Delete(txCtx, productID); deleteErr != nil {
			return fmt.Errorf("failed to delete product: %w", deleteErr)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteProduct,
			EntityID:   product.ID.String(),
			EntityName: product.Name,
			Details:    `{"deleted": true}`,
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

// --- Helpers ---

func (s *productService) resolveCategory(ctx context.Context, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &pricing.ValidationError{Field: "category_id", Reason: err.Error()}
	}
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", raw, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &id, nil
}

func toProductResponse(p *model.Product) ProductResponse {
	res := ProductResponse{
		ID:             p.ID.String(),
		Code:           p.Code,
		Name:           p.Name,
		Unit:           p.Unit,
		CurrentStock:   p.CurrentStock,
		MinStock:       p.MinStock,
		AvgImportPrice: p.AvgImportPrice.StringFixed(2),
		SellingPrice:   p.SellingPrice.StringFixed(2),
		IsActive:       p.IsActive,
	}
	if p.CategoryID != nil {
		res.CategoryID = p.CategoryID.String()
	}
	if p.Category != nil {
		res.CategoryName = p.Category.Name
	}
	return res
}
