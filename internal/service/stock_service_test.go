package service

import (
	"context"
	"testing"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newStockFixture(t *testing.T, stock int, allowNegative bool) (StockService, *fakeProductRepo, *fakeStockTxRepo, *fakeAuditRepo, *model.Product) {
	t.Helper()

	product := &model.Product{
		ID:             uuid.New(),
		Code:           "SKU-010",
		Name:           "Packing Tape",
		Unit:           "pcs",
		CurrentStock:   stock,
		MinStock:       5,
		AvgImportPrice: decimal.NewFromInt(10000),
		SellingPrice:   decimal.NewFromInt(15000),
		IsActive:       true,
	}

	productRepo := newFakeProductRepo(product)
	stockTxRepo := &fakeStockTxRepo{}
	auditRepo := &fakeAuditRepo{}

	svc := NewStockService(productRepo, stockTxRepo, auditRepo, fakeTxManager{}, nil, allowNegative)
	return svc, productRepo, stockTxRepo, auditRepo, product
}

func TestCreateStockTransactionImport(t *testing.T) {
	svc, productRepo, stockTxRepo, auditRepo, product := newStockFixture(t, 10, false)

	res, err := svc.CreateTransaction(context.Background(), "", CreateStockTxRequest{
		ProductID: product.ID.String(),
		Type:      model.StockTxImport,
		Quantity:  20,
		UnitPrice: "13000",
	})
	require.NoError(t, err)
	require.Equal(t, 20, res.Quantity)
	require.Equal(t, 10, res.StockBefore)
	require.Equal(t, 30, res.StockAfter)

	require.Equal(t, 30, productRepo.products[product.ID].CurrentStock)

	// Weighted average: (10*10000 + 20*13000) / 30 = 12000
	require.True(t, productRepo.products[product.ID].AvgImportPrice.Equal(decimal.NewFromInt(12000)),
		"got %s", productRepo.products[product.ID].AvgImportPrice)

	require.Len(t, stockTxRepo.entries, 1)
	require.Len(t, auditRepo.entries, 1)
	require.Equal(t, model.ActionStockImport, auditRepo.entries[0].Action)
}

func TestCreateStockTransactionExport(t *testing.T) {
	svc, productRepo, stockTxRepo, _, product := newStockFixture(t, 10, false)

	res, err := svc.CreateTransaction(context.Background(), "", CreateStockTxRequest{
		ProductID: product.ID.String(),
		Type:      model.StockTxExport,
		Quantity:  3,
	})
	require.NoError(t, err)
	require.Equal(t, -3, res.Quantity)
	require.Equal(t, 7, res.StockAfter)
	require.Equal(t, 7, productRepo.products[product.ID].CurrentStock)
	require.Equal(t, model.StockTxExport, stockTxRepo.entries[0].Type)
}

func TestCreateStockTransactionExportInsufficient(t *testing.T) {
	svc, productRepo, stockTxRepo, _, product := newStockFixture(t, 2, false)

	_, err := svc.CreateTransaction(context.Background(), "", CreateStockTxRequest{
		ProductID: product.ID.String(),
		Type:      model.StockTxExport,
		Quantity:  5,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 2, productRepo.products[product.ID].CurrentStock)
	require.Empty(t, stockTxRepo.entries)
}

func TestCreateStockTransactionNegativeAdjustment(t *testing.T) {
	svc, productRepo, _, auditRepo, product := newStockFixture(t, 10, false)

	res, err := svc.CreateTransaction(context.Background(), "", CreateStockTxRequest{
		ProductID: product.ID.String(),
		Type:      model.StockTxAdjustment,
		Quantity:  -4,
		Note:      "stocktake shortfall",
	})
	require.NoError(t, err)
	require.Equal(t, -4, res.Quantity)
	require.Equal(t, 6, productRepo.products[product.ID].CurrentStock)
	require.Equal(t, model.ActionStockAdjust, auditRepo.entries[0].Action)
}

func TestSignQuantityValidation(t *testing.T) {
	cases := []struct {
		name     string
		txType   string
		quantity int
		want     int
		wantErr  bool
	}{
		{"import positive", model.StockTxImport, 5, 5, false},
		{"import zero rejected", model.StockTxImport, 0, 0, true},
		{"import negative rejected", model.StockTxImport, -5, 0, true},
		{"export negated", model.StockTxExport, 5, -5, false},
		{"export negative rejected", model.StockTxExport, -5, 0, true},
		{"adjustment keeps sign", model.StockTxAdjustment, -3, -3, false},
		{"adjustment zero rejected", model.StockTxAdjustment, 0, 0, true},
		{"unknown type rejected", "transfer", 5, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := signQuantity(tc.txType, tc.quantity)
			if tc.wantErr {
				var valErr *pricing.ValidationError
				require.ErrorAs(t, err, &valErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestListByProductReturnsLedger(t *testing.T) {
	svc, _, _, _, product := newStockFixture(t, 10, false)

	_, err := svc.CreateTransaction(context.Background(), "", CreateStockTxRequest{
		ProductID: product.ID.String(),
		Type:      model.StockTxImport,
		Quantity:  5,
	})
	require.NoError(t, err)

	txs, total, err := svc.ListByProduct(context.Background(), product.ID.String(), 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, txs, 1)
	require.Equal(t, 15, txs[0].StockAfter)
}
