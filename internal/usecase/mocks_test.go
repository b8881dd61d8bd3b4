package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any)        {}
func (noopLogger) Infof(string, ...any)         {}
func (noopLogger) Warnf(string, ...any)         {}
func (noopLogger) Errorf(error, string, ...any) {}

// fakeDB сериализует транзакции общей блокировкой, имитируя блокировку строк
// FOR UPDATE: пока одна транзакция не завершена, следующая не начнётся.
type fakeDB struct {
	mu sync.Mutex
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return f.BeginTx(ctx, pgx.TxOptions{})
}

func (f *fakeDB) BeginTx(_ context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	f.mu.Lock()
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	db   *fakeDB
	once sync.Once
}

func (t *fakeTx) release() {
	t.once.Do(func() { t.db.mu.Unlock() })
}

func (t *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(_ context.Context) error {
	t.release()
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.release()
	return nil
}

func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }

func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return nil }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type mockProductRepo struct {
	mu         sync.Mutex
	products   map[int64]*domain.Product
	nextID     int64
	applyErrs  []error // очередь ошибок для ApplyStock, nil означает успех
	applyCalls int
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		cp := *p
		m.products[cp.ID] = &cp
		if cp.ID > m.nextID {
			m.nextID = cp.ID
		}
	}
	return m
}

func (m *mockProductRepo) stockOf(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *mockProductRepo) statusOf(id int64) domain.ProductStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Status
}

func (m *mockProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *product
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	m.products[cp.ID] = &cp

	res := cp
	return &res, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, &e.ProductNotFoundError{ProductID: id}
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) List(_ context.Context, _ *ListProductsReq) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.products[id])
	}
	return result, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[product.ID]; !ok {
		return nil, &e.ProductNotFoundError{ProductID: product.ID}
	}
	cp := *product
	m.products[cp.ID] = &cp

	res := cp
	return &res, nil
}

func (m *mockProductRepo) Delete(_ context.Context, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := m.products[id]; ok {
			delete(m.products, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockProductRepo) GetProductsInfo(_ context.Context, ids []int64) ([]ProductInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]ProductInfo, 0, len(ids))
	for _, id := range ids {
		p, ok := m.products[id]
		if !ok {
			continue
		}
		result = append(result, NewProductInfo(p.ID, p.Name, p.Category, p.Price, p.Stock, string(p.Status)))
	}
	return result, nil
}

func (m *mockProductRepo) Stats(_ context.Context, lowStockThreshold int) (*ProductStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &ProductStats{}
	for _, p := range m.products {
		stats.TotalProducts++
		if p.Stock < lowStockThreshold {
			stats.LowStockCount++
		}
		stats.InventoryValue += p.Price * int64(p.Stock)
	}
	return stats, nil
}

func (m *mockProductRepo) GetForUpdate(_ context.Context, ids []int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProductRepo) ApplyStock(_ context.Context, id int64, stock int, status domain.ProductStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applyCalls++
	if len(m.applyErrs) > 0 {
		err := m.applyErrs[0]
		m.applyErrs = m.applyErrs[1:]
		if err != nil {
			return err
		}
	}

	p, ok := m.products[id]
	if !ok {
		return &e.ProductNotFoundError{ProductID: id}
	}
	p.Stock = stock
	p.Status = status
	return nil
}

type mockQuoteRepo struct {
	mu     sync.Mutex
	quotes map[int64]*domain.Quote
	nextID int64
}

func newMockQuoteRepo() *mockQuoteRepo {
	return &mockQuoteRepo{quotes: make(map[int64]*domain.Quote)}
}

func (m *mockQuoteRepo) Create(_ context.Context, quote *domain.Quote) (*domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *quote
	cp.ID = m.nextID
	cp.Items = append([]domain.QuoteItem(nil), quote.Items...)
	m.quotes[cp.ID] = &cp

	res := cp
	return &res, nil
}

func (m *mockQuoteRepo) GetByID(_ context.Context, id int64) (*domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.quotes[id]
	if !ok {
		return nil, e.ErrQuoteNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *mockQuoteRepo) List(_ context.Context, req *ListQuotesReq) ([]domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.quotes))
	for id := range m.quotes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]domain.Quote, 0, len(ids))
	for _, id := range ids {
		q := m.quotes[id]
		if req.Status != "" && req.Status != "All" && string(q.Status) != req.Status {
			continue
		}
		result = append(result, *q)
	}
	return result, nil
}

func (m *mockQuoteRepo) SetStatus(_ context.Context, quoteID int64, status domain.QuoteStatus, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.quotes[quoteID]
	if !ok {
		return e.ErrQuoteNotFound
	}
	if q.Status != domain.QuoteStatusPending {
		return e.ErrQuoteNotPending
	}

	q.Status = status
	switch status {
	case domain.QuoteStatusAccepted:
		q.AcceptedAt = &at
	case domain.QuoteStatusRejected:
		q.RejectedAt = &at
		q.RejectionReason = reason
	}
	return nil
}

func (m *mockQuoteRepo) CountByStatus(_ context.Context, status domain.QuoteStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, q := range m.quotes {
		if q.Status == status {
			count++
		}
	}
	return count, nil
}

type mockCustomerRepo struct {
	mu        sync.Mutex
	customers map[int64]*domain.Customer
	nextID    int64
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[int64]*domain.Customer)}
}

func (m *mockCustomerRepo) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *customer
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	m.customers[cp.ID] = &cp

	res := cp
	return &res, nil
}

func (m *mockCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, e.ErrCustomerNotFound
}

func (m *mockCustomerRepo) List(_ context.Context, _ string) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.customers))
	for id := range m.customers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]domain.Customer, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.customers[id])
	}
	return result, nil
}

func (m *mockCustomerRepo) Update(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.customers[customer.ID]
	if !ok {
		return nil, e.ErrCustomerNotFound
	}
	cp := *customer
	cp.CreatedAt = existing.CreatedAt
	m.customers[cp.ID] = &cp

	res := cp
	return &res, nil
}

func (m *mockCustomerRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[id]; !ok {
		return e.ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

type mockActivityRepo struct {
	mu     sync.Mutex
	events []*domain.ActivityEvent
	nextID int64
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{}
}

func (m *mockActivityRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *mockActivityRepo) last() *domain.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	cp := *m.events[len(m.events)-1]
	return &cp
}

func (m *mockActivityRepo) Create(_ context.Context, event *domain.ActivityEvent) (*domain.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *event
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	m.events = append(m.events, &cp)

	res := cp
	return &res, nil
}

func (m *mockActivityRepo) Recent(_ context.Context, limit int) ([]domain.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.ActivityEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *m.events[i])
	}
	return result, nil
}

func (m *mockActivityRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*ActivityOutboxEvent, error) {
	return nil, nil
}

func (m *mockActivityRepo) MarkAsProcessed(_ context.Context, _ int64) error {
	return nil
}

type mockCacheRepo struct {
	mu      sync.Mutex
	data    map[int64]ProductInfo
	deleted [][]int64
	setDone chan struct{}
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		data:    make(map[int64]ProductInfo),
		setDone: make(chan struct{}, 16),
	}
}

func (m *mockCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]ProductInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[int64]ProductInfo)
	for _, id := range ids {
		if info, ok := m.data[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (m *mockCacheRepo) SetProducts(_ context.Context, products []ProductInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, info := range products {
		m.data[info.ID] = info
	}
	select {
	case m.setDone <- struct{}{}:
	default:
	}
	return nil
}

func (m *mockCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, ids)
	for _, id := range ids {
		delete(m.data, id)
	}
	return nil
}

func (m *mockCacheRepo) deleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deleted)
}
