package service

import (
	"context"
	"fmt"
	"sync"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes backing the service tests. Unimplemented interface methods
// come from the embedded interface and panic if a test reaches them.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// serialTxManager mimics row-lock serialization: transactions run one at a
// time, the way FOR UPDATE holds concurrent creates on the same product.
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeProductRepo struct {
	repository.ProductRepository
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	m := make(map[uuid.UUID]*model.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeProductRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock = stock
	return nil
}

func (f *fakeProductRepo) UpdateAvgImportPrice(_ context.Context, id uuid.UUID, price decimal.Decimal) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.AvgImportPrice = price
	return nil
}

type fakeOrderRepo struct {
	repository.OrderRepository
	mu         sync.Mutex
	orders     map[uuid.UUID]*model.Order
	seq        int
	lastFilter repository.OrderFilter
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = uuid.New()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) CreateItem(_ context.Context, item *model.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = uuid.New()
	o, ok := f.orders[item.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Items = append(o.Items, *item)
	return nil
}

func (f *fakeOrderRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, paymentStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context, page, limit int, filter repository.OrderFilter) ([]model.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	out := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) NextOrderCode(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("ORD-20260831-%05d", f.seq), nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo(customers ...*model.Customer) *fakeCustomerRepo {
	m := make(map[uuid.UUID]*model.Customer, len(customers))
	for _, c := range customers {
		m[c.ID] = c
	}
	return &fakeCustomerRepo{customers: m}
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomerRepo) AddOrderAggregate(_ context.Context, id uuid.UUID, orderDelta int, amountDelta decimal.Decimal) error {
	c, ok := f.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalOrders += orderDelta
	c.TotalAmount = c.TotalAmount.Add(amountDelta)
	return nil
}

type fakeAgentRepo struct {
	repository.AgentRepository
	agents map[uuid.UUID]*model.Agent
}

func newFakeAgentRepo(agents ...*model.Agent) *fakeAgentRepo {
	m := make(map[uuid.UUID]*model.Agent, len(agents))
	for _, a := range agents {
		m[a.ID] = a
	}
	return &fakeAgentRepo{agents: m}
}

func (f *fakeAgentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Agent, error) {
	a, ok := f.agents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAgentRepo) AddOrderAggregate(_ context.Context, id uuid.UUID, orderDelta int, amountDelta decimal.Decimal) error {
	a, ok := f.agents[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.TotalOrders += orderDelta
	a.TotalAmount = a.TotalAmount.Add(amountDelta)
	return nil
}

type fakeStockTxRepo struct {
	entries []model.StockTransaction
}

func (f *fakeStockTxRepo) Create(_ context.Context, tx *model.StockTransaction) error {
	tx.ID = uuid.New()
	f.entries = append(f.entries, *tx)
	return nil
}

func (f *fakeStockTxRepo) ListByProduct(_ context.Context, productID uuid.UUID, page, limit int) ([]model.StockTransaction, int64, error) {
	var out []model.StockTransaction
	for _, e := range f.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStockTxRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.StockTransaction, error) {
	var out []model.StockTransaction
	for _, e := range f.entries {
		if e.OrderID != nil && *e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	entry.ID = uuid.New()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, page, limit int, action string) ([]model.AuditLog, int64, error) {
	if action == "" {
		return f.entries, int64(len(f.entries)), nil
	}
	var out []model.AuditLog
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}
