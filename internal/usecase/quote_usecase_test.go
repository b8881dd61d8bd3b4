package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgconn"
)

type quoteFixture struct {
	uc           *QuoteUseCase
	productRepo  *mockProductRepo
	quoteRepo    *mockQuoteRepo
	customerRepo *mockCustomerRepo
	activityRepo *mockActivityRepo
	cacheRepo    *mockCacheRepo
}

func newQuoteFixture(products ...*domain.Product) *quoteFixture {
	f := &quoteFixture{
		productRepo:  newMockProductRepo(products...),
		quoteRepo:    newMockQuoteRepo(),
		customerRepo: newMockCustomerRepo(),
		activityRepo: newMockActivityRepo(),
		cacheRepo:    newMockCacheRepo(),
	}
	f.uc = NewQuoteUC(f.quoteRepo, f.productRepo, f.customerRepo, f.activityRepo, f.cacheRepo, &fakeDB{}, noopLogger{})
	return f
}

func TestCommitQuote_Success(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID:       1,
		Name:     "Widget",
		Price:    10000,
		Category: "Tools",
		Stock:    5,
		Status:   domain.StatusAvailable,
	})

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Alice",
		BuyerEmail: "alice@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 5}},
		Actor:      "alice",
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if res.TotalAmount != 50000 {
		t.Errorf("expected total 50000, got %d", res.TotalAmount)
	}
	if res.UID == "" {
		t.Error("expected non-empty quote UID")
	}

	if got := f.productRepo.stockOf(1); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
	if got := f.productRepo.statusOf(1); got != domain.StatusOutOfStock {
		t.Errorf("expected status %q, got %q", domain.StatusOutOfStock, got)
	}

	quote, err := f.quoteRepo.GetByID(context.Background(), res.QuoteID)
	if err != nil {
		t.Fatalf("stored quote not found: %v", err)
	}
	if quote.Status != domain.QuoteStatusPending {
		t.Errorf("expected Pending, got %s", quote.Status)
	}
	if len(quote.Items) != 1 || quote.Items[0].Price != 10000 {
		t.Errorf("unexpected items snapshot: %+v", quote.Items)
	}

	if f.activityRepo.count() != 1 {
		t.Errorf("expected 1 activity event, got %d", f.activityRepo.count())
	}
	if ev := f.activityRepo.last(); ev.Action != domain.ActionCreateQuote {
		t.Errorf("expected %s, got %s", domain.ActionCreateQuote, ev.Action)
	}
	if f.cacheRepo.deleteCalls() != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", f.cacheRepo.deleteCalls())
	}
}

func TestCommitQuote_PartialStockKeepsAvailable(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID:     1,
		Name:   "Widget",
		Price:  500,
		Stock:  10,
		Status: domain.StatusAvailable,
	})

	_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Bob",
		BuyerEmail: "bob@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if got := f.productRepo.stockOf(1); got != 6 {
		t.Errorf("expected stock 6, got %d", got)
	}
	if got := f.productRepo.statusOf(1); got != domain.StatusAvailable {
		t.Errorf("expected status %q, got %q", domain.StatusAvailable, got)
	}
}

func TestCommitQuote_DiscontinuedStatusPreserved(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID:     1,
		Name:   "Legacy",
		Price:  500,
		Stock:  10,
		Status: domain.StatusDiscontinued,
	})

	_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Bob",
		BuyerEmail: "bob@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if got := f.productRepo.statusOf(1); got != domain.StatusDiscontinued {
		t.Errorf("expected status %q, got %q", domain.StatusDiscontinued, got)
	}
}

func TestCommitQuote_InsufficientStock(t *testing.T) {
	f := newQuoteFixture(
		&domain.Product{ID: 1, Name: "Widget", Price: 1000, Stock: 10, Status: domain.StatusAvailable},
		&domain.Product{ID: 2, Name: "Gadget", Price: 2000, Stock: 1, Status: domain.StatusAvailable},
	)

	_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Carol",
		BuyerEmail: "carol@example.com",
		Items: []LineItemReq{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 3},
		},
	})
	if !errors.Is(err, e.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	var stockErr *e.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if stockErr.ProductID != 2 || stockErr.Requested != 3 || stockErr.Available != 1 {
		t.Errorf("unexpected error details: %+v", stockErr)
	}

	// Ни одна строка не применилась, котировка не создана
	if got := f.productRepo.stockOf(1); got != 10 {
		t.Errorf("expected stock 10, got %d", got)
	}
	if got := f.productRepo.stockOf(2); got != 1 {
		t.Errorf("expected stock 1, got %d", got)
	}
	if len(f.quoteRepo.quotes) != 0 {
		t.Errorf("expected no quotes, got %d", len(f.quoteRepo.quotes))
	}
	if f.activityRepo.count() != 0 {
		t.Errorf("expected no activity events, got %d", f.activityRepo.count())
	}
}

func TestCommitQuote_DuplicateLinesShareStock(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID:     1,
		Name:   "Widget",
		Price:  1000,
		Stock:  3,
		Status: domain.StatusAvailable,
	})

	// 2 + 2 по одному продукту превышает остаток 3, хотя каждая строка
	// по отдельности проходит
	_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Dave",
		BuyerEmail: "dave@example.com",
		Items: []LineItemReq{
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 2},
		},
	})
	if !errors.Is(err, e.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	if got := f.productRepo.stockOf(1); got != 3 {
		t.Errorf("expected stock 3, got %d", got)
	}
}

func TestCommitQuote_ProductNotFound(t *testing.T) {
	f := newQuoteFixture()

	_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Eve",
		BuyerEmail: "eve@example.com",
		Items:      []LineItemReq{{ProductID: 42, Quantity: 1}},
	})
	if !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got: %v", err)
	}

	var notFound *e.ProductNotFoundError
	if !errors.As(err, &notFound) || notFound.ProductID != 42 {
		t.Errorf("expected ProductNotFoundError for 42, got: %v", err)
	}
}

func TestCommitQuote_ResolvesBuyerByEmail(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})

	existing, err := f.customerRepo.Create(context.Background(),
		domain.NewCustomer("Alice", "alice@example.com", "", ""))
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Alice Smith",
		BuyerEmail: "alice@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	quote, err := f.quoteRepo.GetByID(context.Background(), res.QuoteID)
	if err != nil {
		t.Fatalf("stored quote not found: %v", err)
	}
	if quote.Buyer.CustomerID != existing.ID {
		t.Errorf("expected customer %d, got %d", existing.ID, quote.Buyer.CustomerID)
	}
	// Снапшот берётся из запроса, а не из карточки клиента
	if quote.Buyer.Name != "Alice Smith" {
		t.Errorf("expected buyer snapshot 'Alice Smith', got %q", quote.Buyer.Name)
	}
}

func TestCommitQuote_AutoCreatesCustomer(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Frank",
		BuyerEmail: "frank@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	created, err := f.customerRepo.GetByEmail(context.Background(), "frank@example.com")
	if err != nil {
		t.Fatalf("expected auto-created customer: %v", err)
	}

	quote, _ := f.quoteRepo.GetByID(context.Background(), res.QuoteID)
	if quote.Buyer.CustomerID != created.ID {
		t.Errorf("expected customer %d, got %d", created.ID, quote.Buyer.CustomerID)
	}
}

func TestCommitQuote_Concurrent(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})

	var (
		successCount atomic.Int32
		stockErrs    atomic.Int32
		wg           sync.WaitGroup
	)

	// Каждый запрос на 3 из 5: успеть может ровно один
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
				BuyerName:  "Racer",
				BuyerEmail: "racer@example.com",
				Items:      []LineItemReq{{ProductID: 1, Quantity: 3}},
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, e.ErrInsufficientStock):
				stockErrs.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successCount.Load())
	}
	if stockErrs.Load() != 1 {
		t.Errorf("expected exactly 1 stock conflict, got %d", stockErrs.Load())
	}
	if got := f.productRepo.stockOf(1); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}
}

func TestCommitQuote_RetriesOnSerializationFailure(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})
	f.productRepo.applyErrs = []error{
		&pgconn.PgError{Code: "40001"},
		nil,
	}

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Grace",
		BuyerEmail: "grace@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("expected success after retry, got error: %v", err)
	}
	if res.TotalAmount != 2000 {
		t.Errorf("expected total 2000, got %d", res.TotalAmount)
	}

	f.productRepo.mu.Lock()
	calls := f.productRepo.applyCalls
	f.productRepo.mu.Unlock()
	if calls != 2 {
		t.Errorf("expected 2 ApplyStock attempts, got %d", calls)
	}
	if len(f.quoteRepo.quotes) != 1 {
		t.Errorf("expected exactly 1 quote, got %d", len(f.quoteRepo.quotes))
	}
}

func TestCommitQuote_RetriesExhausted(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})
	f.uc.maxRetries = 2
	f.productRepo.applyErrs = []error{
		&pgconn.PgError{Code: "40001"},
		&pgconn.PgError{Code: "40P01"},
	}

	_, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Henry",
		BuyerEmail: "henry@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 1}},
	})
	if !errors.Is(err, e.ErrTransactionConflict) {
		t.Fatalf("expected ErrTransactionConflict, got: %v", err)
	}
	if len(f.quoteRepo.quotes) != 0 {
		t.Errorf("expected no quotes, got %d", len(f.quoteRepo.quotes))
	}
}

func TestSetQuoteStatus_Accept(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Ivy",
		BuyerEmail: "ivy@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	err = f.uc.SetQuoteStatus(context.Background(), &SetQuoteStatusReq{
		QuoteID: res.QuoteID,
		Status:  domain.QuoteStatusAccepted,
		Actor:   "manager",
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	quote, _ := f.quoteRepo.GetByID(context.Background(), res.QuoteID)
	if quote.Status != domain.QuoteStatusAccepted {
		t.Errorf("expected Accepted, got %s", quote.Status)
	}
	if quote.AcceptedAt == nil {
		t.Error("expected AcceptedAt to be set")
	}

	if ev := f.activityRepo.last(); ev == nil || ev.Action != domain.ActionUpdateQuote {
		t.Errorf("expected update_quote activity, got %+v", ev)
	}
}

func TestSetQuoteStatus_RejectStoresReason(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Jack",
		BuyerEmail: "jack@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	err = f.uc.SetQuoteStatus(context.Background(), &SetQuoteStatusReq{
		QuoteID: res.QuoteID,
		Status:  domain.QuoteStatusRejected,
		Reason:  "price too high",
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	quote, _ := f.quoteRepo.GetByID(context.Background(), res.QuoteID)
	if quote.Status != domain.QuoteStatusRejected {
		t.Errorf("expected Rejected, got %s", quote.Status)
	}
	if quote.RejectionReason != "price too high" {
		t.Errorf("unexpected reason: %q", quote.RejectionReason)
	}

	// Остатки при отклонении не восстанавливаются
	if got := f.productRepo.stockOf(1); got != 3 {
		t.Errorf("expected stock 3, got %d", got)
	}
}

func TestSetQuoteStatus_NotPending(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 1000, Stock: 5, Status: domain.StatusAvailable,
	})

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Kate",
		BuyerEmail: "kate@example.com",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	accept := &SetQuoteStatusReq{QuoteID: res.QuoteID, Status: domain.QuoteStatusAccepted}
	if err := f.uc.SetQuoteStatus(context.Background(), accept); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	err = f.uc.SetQuoteStatus(context.Background(), accept)
	if !errors.Is(err, e.ErrQuoteNotPending) {
		t.Errorf("expected ErrQuoteNotPending, got: %v", err)
	}
}

func TestSetQuoteStatus_InvalidStatus(t *testing.T) {
	f := newQuoteFixture()

	err := f.uc.SetQuoteStatus(context.Background(), &SetQuoteStatusReq{
		QuoteID: 1,
		Status:  domain.QuoteStatusPending,
	})
	if !errors.Is(err, e.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got: %v", err)
	}
}

func TestSetQuoteStatus_NotFound(t *testing.T) {
	f := newQuoteFixture()

	err := f.uc.SetQuoteStatus(context.Background(), &SetQuoteStatusReq{
		QuoteID: 99,
		Status:  domain.QuoteStatusAccepted,
	})
	if !errors.Is(err, e.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound, got: %v", err)
	}
}

func TestExportQuotesCSV(t *testing.T) {
	f := newQuoteFixture(&domain.Product{
		ID: 1, Name: "Widget", Price: 149999, Stock: 5, Status: domain.StatusAvailable,
	})

	res, err := f.uc.CommitQuote(context.Background(), &CommitQuoteReq{
		BuyerName:  "Laura",
		BuyerEmail: "laura@example.com",
		BuyerPhone: "+7900",
		Items:      []LineItemReq{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	data, err := f.uc.ExportQuotesCSV(context.Background(), &ListQuotesReq{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Quote ID,Date,Customer Name") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], res.UID) {
		t.Errorf("expected row with UID %s: %q", res.UID, lines[1])
	}
	if !strings.Contains(lines[1], "2999.98") {
		t.Errorf("expected formatted total 2999.98: %q", lines[1])
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{149999, "1499.99"},
	}

	for _, tc := range cases {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
