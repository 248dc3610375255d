package repository

import (
	"context"

	"salesdesk-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByCode(ctx context.Context, code string) (*model.Customer, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error)
	AddOrderAggregate(ctx context.Context, id uuid.UUID, orderDelta int, amountDelta decimal.Decimal) error
	RecomputeAggregates(ctx context.Context, id uuid.UUID) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Customer{}).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByCode(ctx context.Context, code string) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Customer{})
	if search != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ? OR phone ILIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// AddOrderAggregate shifts the denormalized totals when an order referencing
// this customer is created or cancelled. Runs inside the order transaction.
func (r *customerRepository) AddOrderAggregate(ctx context.Context, id uuid.UUID, orderDelta int, amountDelta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Customer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_orders": gorm.Expr("total_orders + ?", orderDelta),
			"total_amount": gorm.Expr("total_amount + ?", amountDelta),
		}).Error
}

// RecomputeAggregates rebuilds the running totals from the active order set.
// Eventual recomputation keeps the denormalized cache honest.
func (r *customerRepository) RecomputeAggregates(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Exec(`
		UPDATE customers SET
			total_orders = (SELECT COUNT(*) FROM orders WHERE customer_id = ? AND status = ?),
			total_amount = (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE customer_id = ? AND status = ?)
		WHERE id = ?
	`, id, model.OrderStatusActive, id, model.OrderStatusActive, id).Error
}
