package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T, stock int, allowNegative bool) (OrderService, *fakeProductRepo, *fakeOrderRepo, *fakeCustomerRepo, *fakeStockTxRepo, *fakeAuditRepo, *model.Product, *model.Customer) {
	t.Helper()

	product := &model.Product{
		ID:           uuid.New(),
		Code:         "SKU-001",
		Name:         "Corrugated Box L",
		Unit:         "pcs",
		CurrentStock: stock,
		MinStock:     2,
		SellingPrice: decimal.NewFromInt(100000),
		IsActive:     true,
	}
	customer := &model.Customer{
		ID:       uuid.New(),
		Code:     "CUS-001",
		Name:     "Acme Trading",
		IsActive: true,
	}

	productRepo := newFakeProductRepo(product)
	orderRepo := newFakeOrderRepo()
	customerRepo := newFakeCustomerRepo(customer)
	agentRepo := newFakeAgentRepo()
	stockTxRepo := &fakeStockTxRepo{}
	auditRepo := &fakeAuditRepo{}

	svc := NewOrderService(orderRepo, productRepo, customerRepo, agentRepo, stockTxRepo, auditRepo, fakeTxManager{}, nil, allowNegative)
	return svc, productRepo, orderRepo, customerRepo, stockTxRepo, auditRepo, product, customer
}

func TestCreateOrderComputesTotalsAndExportsStock(t *testing.T) {
	svc, productRepo, _, customerRepo, stockTxRepo, auditRepo, product, customer := newOrderFixture(t, 10, false)

	res, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 2},
		},
		VATRate:     "0.1",
		ShippingFee: "20000",
	})
	require.NoError(t, err)

	// 2 x 100000 at 10% VAT plus 20000 shipping
	require.Equal(t, "200000.00", res.Subtotal)
	require.Equal(t, "20000.00", res.VATAmount)
	require.Equal(t, "20000.00", res.ShippingFee)
	require.Equal(t, "240000.00", res.TotalAmount)
	require.Equal(t, model.OrderStatusActive, res.Status)
	require.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
	require.NotEmpty(t, res.OrderCode)

	require.Len(t, res.Items, 1)
	require.Equal(t, "Corrugated Box L", res.Items[0].ProductName)
	require.Equal(t, "200000.00", res.Items[0].LineTotal)

	// Stock moved and the export is on the ledger with snapshots
	require.Equal(t, 8, productRepo.products[product.ID].CurrentStock)
	require.Len(t, stockTxRepo.entries, 1)
	entry := stockTxRepo.entries[0]
	require.Equal(t, model.StockTxExport, entry.Type)
	require.Equal(t, -2, entry.Quantity)
	require.Equal(t, 10, entry.StockBefore)
	require.Equal(t, 8, entry.StockAfter)
	require.NotNil(t, entry.OrderID)

	// Customer aggregates follow the order
	require.Equal(t, 1, customerRepo.customers[customer.ID].TotalOrders)
	require.True(t, customerRepo.customers[customer.ID].TotalAmount.Equal(decimal.NewFromInt(240000)))

	require.Len(t, auditRepo.entries, 1)
	require.Equal(t, model.ActionCreateOrder, auditRepo.entries[0].Action)
}

func TestCreateOrderUnitPriceOverride(t *testing.T) {
	svc, _, _, _, _, _, product, _ := newOrderFixture(t, 10, false)

	res, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 1, UnitPrice: "85000"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "85000.00", res.Items[0].UnitPrice)
	require.Equal(t, "85000.00", res.TotalAmount)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, productRepo, _, _, _, _, product, _ := newOrderFixture(t, 1, false)

	_, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 5},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The failing line never touched the product
	require.Equal(t, 1, productRepo.products[product.ID].CurrentStock)
}

func TestCreateOrderAllowNegativeStockPolicy(t *testing.T) {
	svc, productRepo, _, _, stockTxRepo, _, product, _ := newOrderFixture(t, 1, true)

	_, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, -4, productRepo.products[product.ID].CurrentStock)
	require.Equal(t, -4, stockTxRepo.entries[0].StockAfter)
}

func TestCreateOrderRepeatedProductLines(t *testing.T) {
	svc, productRepo, _, _, stockTxRepo, _, product, _ := newOrderFixture(t, 10, false)

	_, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 2},
			{ProductID: product.ID.String(), Quantity: 3},
		},
	})
	require.NoError(t, err)

	// Both lines hit the same product; the second decrement continues from
	// the first, not from the original stock level
	require.Equal(t, 5, productRepo.products[product.ID].CurrentStock)

	require.Len(t, stockTxRepo.entries, 2)
	require.Equal(t, 10, stockTxRepo.entries[0].StockBefore)
	require.Equal(t, 8, stockTxRepo.entries[0].StockAfter)
	require.Equal(t, 8, stockTxRepo.entries[1].StockBefore)
	require.Equal(t, 5, stockTxRepo.entries[1].StockAfter)

	// Ledger sum matches the actual stock delta
	delta := 0
	for _, e := range stockTxRepo.entries {
		delta += e.Quantity
	}
	require.Equal(t, -5, delta)
}

func TestCreateOrderRepeatedProductInsufficientTotal(t *testing.T) {
	svc, productRepo, _, _, stockTxRepo, _, product, _ := newOrderFixture(t, 5, false)

	// Each line alone fits in stock 5; together they do not
	_, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 3},
			{ProductID: product.ID.String(), Quantity: 3},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, 5, productRepo.products[product.ID].CurrentStock)
	require.Empty(t, stockTxRepo.entries)
}

func TestCreateOrderConcurrentCreatesNeverOversell(t *testing.T) {
	product := &model.Product{
		ID:           uuid.New(),
		Code:         "SKU-001",
		Name:         "Corrugated Box L",
		Unit:         "pcs",
		CurrentStock: 5,
		MinStock:     0,
		SellingPrice: decimal.NewFromInt(100000),
		IsActive:     true,
	}
	productRepo := newFakeProductRepo(product)
	orderRepo := newFakeOrderRepo()
	svc := NewOrderService(orderRepo, productRepo, newFakeCustomerRepo(), newFakeAgentRepo(),
		&fakeStockTxRepo{}, &fakeAuditRepo{}, &serialTxManager{}, nil, false)

	// Two orders of 3 against stock 5: the transactions serialize on the
	// product row, so exactly one succeeds and stock never goes negative
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), "", CreateOrderRequest{
				Items: []OrderItemRequest{
					{ProductID: product.ID.String(), Quantity: 3},
				},
			})
		}(i)
	}
	wg.Wait()

	insufficient := 0
	for _, err := range errs {
		if errors.Is(err, ErrInsufficientStock) {
			insufficient++
		} else {
			require.NoError(t, err)
		}
	}
	require.Equal(t, 1, insufficient)
	require.Equal(t, 2, productRepo.products[product.ID].CurrentStock)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, _, _, _, _, _, _ := newOrderFixture(t, 10, false)

	_, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: uuid.NewString(), Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, productRepo, _, customerRepo, stockTxRepo, _, product, customer := newOrderFixture(t, 10, false)

	created, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		CustomerID: customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 6, productRepo.products[product.ID].CurrentStock)

	cancelled, err := svc.CancelOrder(context.Background(), "", created.ID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	// Create-then-cancel leaves stock exactly where it started
	require.Equal(t, 10, productRepo.products[product.ID].CurrentStock)

	// Export followed by a compensating import on the ledger
	require.Len(t, stockTxRepo.entries, 2)
	require.Equal(t, model.StockTxExport, stockTxRepo.entries[0].Type)
	require.Equal(t, model.StockTxImport, stockTxRepo.entries[1].Type)
	require.Equal(t, 4, stockTxRepo.entries[1].Quantity)
	require.Equal(t, 6, stockTxRepo.entries[1].StockBefore)
	require.Equal(t, 10, stockTxRepo.entries[1].StockAfter)

	// Aggregates net out to zero
	require.Equal(t, 0, customerRepo.customers[customer.ID].TotalOrders)
	require.True(t, customerRepo.customers[customer.ID].TotalAmount.IsZero())
}

func TestCancelOrderTwiceRejected(t *testing.T) {
	svc, _, _, _, _, _, product, _ := newOrderFixture(t, 10, false)

	created, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), "", created.ID)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), "", created.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	svc, _, _, _, _, _, product, _ := newOrderFixture(t, 10, false)

	created, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, created.PaymentStatus)

	// pending -> debt -> completed is allowed
	res, err := svc.UpdatePaymentStatus(context.Background(), "", created.ID, UpdatePaymentStatusRequest{PaymentStatus: model.PaymentStatusDebt})
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusDebt, res.PaymentStatus)

	res, err = svc.UpdatePaymentStatus(context.Background(), "", created.ID, UpdatePaymentStatusRequest{PaymentStatus: model.PaymentStatusCompleted})
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCompleted, res.PaymentStatus)

	// completed is terminal
	_, err = svc.UpdatePaymentStatus(context.Background(), "", created.ID, UpdatePaymentStatusRequest{PaymentStatus: model.PaymentStatusDebt})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdatePaymentStatusRejectsSameState(t *testing.T) {
	svc, _, _, _, _, _, product, _ := newOrderFixture(t, 10, false)

	created, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	_, err = svc.UpdatePaymentStatus(context.Background(), "", created.ID, UpdatePaymentStatusRequest{PaymentStatus: model.PaymentStatusDebt})
	require.NoError(t, err)

	// debt -> debt is not a transition
	_, err = svc.UpdatePaymentStatus(context.Background(), "", created.ID, UpdatePaymentStatusRequest{PaymentStatus: model.PaymentStatusDebt})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListOrdersDateRangeFilter(t *testing.T) {
	svc, _, orderRepo, _, _, _, _, _ := newOrderFixture(t, 10, false)

	_, _, err := svc.ListOrders(context.Background(), 1, 20, OrderListFilter{
		From: "2026-03-01",
		To:   "2026-03-31",
	})
	require.NoError(t, err)

	require.NotNil(t, orderRepo.lastFilter.From)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *orderRepo.lastFilter.From)

	// A bare date as the upper bound covers the whole day
	require.NotNil(t, orderRepo.lastFilter.To)
	require.True(t, orderRepo.lastFilter.To.After(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)))
	require.True(t, orderRepo.lastFilter.To.Before(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	// RFC3339 bounds pass through as given
	_, _, err = svc.ListOrders(context.Background(), 1, 20, OrderListFilter{
		From: "2026-03-01T08:30:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), *orderRepo.lastFilter.From)

	_, _, err = svc.ListOrders(context.Background(), 1, 20, OrderListFilter{From: "not-a-date"})
	var vErr *pricing.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "from", vErr.Field)
}

func TestCreateOrderRejectsInactiveProduct(t *testing.T) {
	svc, productRepo, _, _, _, _, product, _ := newOrderFixture(t, 10, false)
	productRepo.products[product.ID].IsActive = false

	_, err := svc.CreateOrder(context.Background(), "", CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 1},
		},
	})
	require.Error(t, err)
}
