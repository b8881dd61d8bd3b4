package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/go-chi/chi/v5"
)

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any)        {}
func (noopLogger) Infof(string, ...any)         {}
func (noopLogger) Warnf(string, ...any)         {}
func (noopLogger) Errorf(error, string, ...any) {}

// stubQuoteUC возвращает заранее заданные результаты и запоминает последний запрос.
type stubQuoteUC struct {
	commitRes *usecase.CommitQuoteRes
	commitErr error
	statusErr error

	lastCommit *usecase.CommitQuoteReq
	lastStatus *usecase.SetQuoteStatusReq
}

func (s *stubQuoteUC) CommitQuote(_ context.Context, req *usecase.CommitQuoteReq) (*usecase.CommitQuoteRes, error) {
	s.lastCommit = req
	if s.commitErr != nil {
		return nil, s.commitErr
	}
	return s.commitRes, nil
}

func (s *stubQuoteUC) GetQuote(_ context.Context, _ int64) (*usecase.QuoteRes, error) {
	return nil, e.ErrQuoteNotFound
}

func (s *stubQuoteUC) ListQuotes(_ context.Context, _ *usecase.ListQuotesReq) ([]usecase.QuoteRes, error) {
	return []usecase.QuoteRes{}, nil
}

func (s *stubQuoteUC) SetQuoteStatus(_ context.Context, req *usecase.SetQuoteStatusReq) error {
	s.lastStatus = req
	return s.statusErr
}

func (s *stubQuoteUC) ExportQuotesCSV(_ context.Context, _ *usecase.ListQuotesReq) ([]byte, error) {
	return []byte("Quote ID,Date\n"), nil
}

func newQuoteTestRouter(uc usecase.QuoteUC) *chi.Mux {
	router := chi.NewRouter()
	registerQuoteRoutes(router, NewQuoteHandler(uc, noopLogger{}))
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validCommitBody() map[string]any {
	return map[string]any{
		"customer_name":    "Alice",
		"customer_email":   "alice@example.com",
		"customer_phone":   "+7900",
		"customer_address": "Moscow",
		"items":            []map[string]any{{"product_id": 1, "quantity": 2}},
		"actor":            "alice",
	}
}

func TestCommitQuoteHandler_Created(t *testing.T) {
	stub := &stubQuoteUC{commitRes: &usecase.CommitQuoteRes{QuoteID: 7, UID: "uid-7", TotalAmount: 2000}}
	router := newQuoteTestRouter(stub)

	rec := postJSON(t, router, "/quotes/", validCommitBody())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res usecase.CommitQuoteRes
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.QuoteID != 7 || res.UID != "uid-7" {
		t.Errorf("unexpected response: %+v", res)
	}

	if stub.lastCommit == nil || stub.lastCommit.BuyerName != "Alice" {
		t.Errorf("unexpected usecase request: %+v", stub.lastCommit)
	}
}

func TestCommitQuoteHandler_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing name", func(b map[string]any) { b["customer_name"] = "" }},
		{"missing email", func(b map[string]any) { delete(b, "customer_email") }},
		{"no items", func(b map[string]any) { b["items"] = []map[string]any{} }},
		{"zero quantity", func(b map[string]any) {
			b["items"] = []map[string]any{{"product_id": 1, "quantity": 0}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubQuoteUC{}
			router := newQuoteTestRouter(stub)

			body := validCommitBody()
			tc.mutate(body)
			rec := postJSON(t, router, "/quotes/", body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if stub.lastCommit != nil {
				t.Error("usecase must not be called on invalid request")
			}
		})
	}
}

func TestCommitQuoteHandler_InsufficientStock(t *testing.T) {
	stub := &stubQuoteUC{commitErr: &e.InsufficientStockError{
		ProductID: 1, Name: "Widget", Requested: 5, Available: 2,
	}}
	router := newQuoteTestRouter(stub)

	rec := postJSON(t, router, "/quotes/", validCommitBody())

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != http.StatusConflict || body.Message == "" {
		t.Errorf("unexpected error body: %+v", body)
	}
}

func TestAcceptQuoteHandler_NoBody(t *testing.T) {
	stub := &stubQuoteUC{}
	router := newQuoteTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/quotes/5/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastStatus == nil || stub.lastStatus.QuoteID != 5 {
		t.Errorf("unexpected status request: %+v", stub.lastStatus)
	}
}

func TestRejectQuoteHandler_WithReason(t *testing.T) {
	stub := &stubQuoteUC{}
	router := newQuoteTestRouter(stub)

	rec := postJSON(t, router, "/quotes/5/reject", map[string]any{
		"reason": "price too high",
		"actor":  "manager",
	})

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.lastStatus == nil || stub.lastStatus.Reason != "price too high" {
		t.Errorf("unexpected status request: %+v", stub.lastStatus)
	}
}

func TestSetStatusHandler_NotPending(t *testing.T) {
	stub := &stubQuoteUC{statusErr: e.ErrQuoteNotPending}
	router := newQuoteTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/quotes/5/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestGetQuoteHandler_BadID(t *testing.T) {
	router := newQuoteTestRouter(&stubQuoteUC{})

	req := httptest.NewRequest(http.MethodGet, "/quotes/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestExportQuotesHandler_CSVHeaders(t *testing.T) {
	router := newQuoteTestRouter(&stubQuoteUC{})

	req := httptest.NewRequest(http.MethodGet, "/quotes/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("expected text/csv, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=quotes.csv" {
		t.Errorf("unexpected disposition: %q", got)
	}
}
