package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCustomerRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
	TaxCode string `json:"tax_code"`
	Note    string `json:"note"`
}

type UpdateCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address"`
	TaxCode  string `json:"tax_code"`
	Note     string `json:"note"`
	IsActive *bool  `json:"is_active"`
}

type CustomerResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	TaxCode     string `json:"tax_code"`
	Note        string `json:"note"`
	IsActive    bool   `json:"is_active"`
	TotalOrders int    `json:"total_orders"`
	TotalAmount string `json:"total_amount"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type CustomerService interface {
	GetCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error)
	GetCustomer(ctx context.Context, id string) (CustomerResponse, error)
	CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error)
	UpdateCustomer(ctx context.Context, userID string, id string, req UpdateCustomerRequest) (CustomerResponse, error)
	DeleteCustomer(ctx context.Context, userID string, id string) error
	RecomputeAggregates(ctx context.Context, id string) (CustomerResponse, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *customerService) GetCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.customerRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		res = append(res, toCustomerResponse(&customers[i]))
	}

	return res, total, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return CustomerResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toCustomerResponse(customer), nil
}

func (s *customerService) CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error) {
	if _, err := s.customerRepo.FindByCode(ctx, req.Code); err == nil {
		return CustomerResponse{}, fmt.Errorf("customer code %s: %w", req.Code, ErrConflict)
	}

	customer := model.Customer{
		Code:     req.Code,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		TaxCode:  req.TaxCode,
		Note:     req.Note,
		IsActive: true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.customerRepo.Create(txCtx, &customer); createErr != nil {
			return fmt.Errorf("failed to create customer: %w", createErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateCustomer,
			EntityID:   customer.ID.String(),
			EntityName: customer.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})

	if err != nil {
		return CustomerResponse{}, err
	}

	return toCustomerResponse(&customer), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, userID string, id string, req UpdateCustomerRequest) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return CustomerResponse{}, fmt.Errorf("database error: %w", err)
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	customer.TaxCode = req.TaxCode
	customer.Note = req.Note
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.customerRepo.Update(txCtx, customer); updateErr != nil {
			return fmt.Errorf("failed to update customer: %w", updateErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateCustomer,
			EntityID:   customer.ID.String(),
			EntityName: customer.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})

	if err != nil {
		return CustomerResponse{}, err
	}

	return toCustomerResponse(customer), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, userID string, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.customerRepo.Delete(txCtx, customerID); deleteErr != nil {
			return fmt.Errorf("failed to delete customer: %w", deleteErr)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteCustomer,
			EntityID:   customer.ID.String(),
			EntityName: customer.Name,
			Details:    `{"deleted": true}`,
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

// RecomputeAggregates rebuilds the denormalized order totals from the order
// set, the admin escape hatch when the cache is suspected stale.
func (s *customerService) RecomputeAggregates(ctx context.Context, id string) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.customerRepo.RecomputeAggregates(txCtx, customerID)
	})
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to recompute aggregates: %w", err)
	}

	return s.GetCustomer(ctx, id)
}

func toCustomerResponse(c *model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID.String(),
		Code:        c.Code,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		TaxCode:     c.TaxCode,
		Note:        c.Note,
		IsActive:    c.IsActive,
		TotalOrders: c.TotalOrders,
		TotalAmount: c.TotalAmount.StringFixed(2),
		CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
