package repository

import (
	"context"
	"fmt"
	"time"

	"salesdesk-backend/internal/model"

	"gorm.io/gorm"
)

// StatisticsRepository answers the dashboard's aggregation queries. Revenue and
// counts only consider active orders so cancellations drop out of the figures.
type StatisticsRepository interface {
	RevenueBetween(ctx context.Context, start, end time.Time) (float64, error)
	OrderCountBetween(ctx context.Context, start, end time.Time) (int64, error)
	NewCustomersBetween(ctx context.Context, start, end time.Time) (int64, error)
	DebtTotal(ctx context.Context) (float64, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) RevenueBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var result struct {
		Value float64
	}
	err := GetDB(ctx, r.db).Table("orders").
		Select("COALESCE(SUM(total_amount), 0) as value").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.OrderStatusActive, start, end).
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query revenue: %w", err)
	}
	return result.Value, nil
}

func (r *statisticsRepository) OrderCountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", model.OrderStatusActive, start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *statisticsRepository) NewCustomersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Customer{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count new customers: %w", err)
	}
	return count, nil
}

// DebtTotal sums the outstanding amount over delivered-but-unpaid orders
func (r *statisticsRepository) DebtTotal(ctx context.Context) (float64, error) {
	var result struct {
		Value float64
	}
	err := GetDB(ctx, r.db).Table("orders").
		Select("COALESCE(SUM(total_amount), 0) as value").
		Where("status = ? AND payment_status = ?", model.OrderStatusActive, model.PaymentStatusDebt).
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query debt total: %w", err)
	}
	return result.Value, nil
}

func (r *statisticsRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	if err := GetDB(ctx, r.db).Table("order_items").
		Select("products.id as product_id, products.name as product_name, products.code as product_code, SUM(order_items.quantity) as total_quantity, SUM(order_items.line_total) as total_value").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.created_at >= ? AND orders.created_at < ?", model.OrderStatusActive, start, end).
		Group("products.id, products.name, products.code").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rankings, nil
}
