package repository

import (
	"context"

	"salesdesk-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockTxRepository appends and reads stock transactions. There is deliberately
// no Update or Delete: the ledger is append-only and corrections are new rows.
type StockTxRepository interface {
	Create(ctx context.Context, tx *model.StockTransaction) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockTransaction, int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StockTransaction, error)
}

type stockTxRepository struct {
	db *gorm.DB
}

func NewStockTxRepository(db *gorm.DB) StockTxRepository {
	return &stockTxRepository{db: db}
}

func (r *stockTxRepository) Create(ctx context.Context, tx *model.StockTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *stockTxRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockTransaction, int64, error) {
	var txs []model.StockTransaction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockTransaction{}).Where("product_id = ?", productID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *stockTxRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StockTransaction, error) {
	var txs []model.StockTransaction
	if err := GetDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
