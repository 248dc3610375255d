package repository

import (
	"context"
	"fmt"
	"time"

	"salesdesk-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    *uuid.UUID
	AgentID       *uuid.UUID
	From          *time.Time
	To            *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItem(ctx context.Context, item *model.OrderItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error
	List(ctx context.Context, page, limit int, filter OrderFilter) ([]model.Order, int64, error)
	NextOrderCode(ctx context.Context) (string, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Customer").
		Preload("Agent").
		Preload("Creator").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("payment_status", paymentStatus).Error
}

func (r *orderRepository) List(ctx context.Context, page, limit int, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Order{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		db = db.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.AgentID != nil {
		db = db.Where("agent_id = ?", filter.AgentID)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at <= ?", filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("Customer").
		Preload("Agent").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// NextOrderCode issues "ORD-YYYYMMDD-NNNNN" sequentially per day. A Postgres
// advisory lock on the prefix prevents duplicate codes under concurrent creates.
func (r *orderRepository) NextOrderCode(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	today := time.Now().Format("20060102")
	prefix := "ORD-" + today + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.Order{}).
		Where("order_code LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
