package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DRSN-tech/quotes-backend/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"599.99", 59999},
		{"600", 60000},
		{"0", 0},
		{"0.05", 5},
		{"1499.9", 149990},
	}

	for _, tc := range cases {
		got, err := parsePriceToCents(tc.in)
		if err != nil {
			t.Errorf("parsePriceToCents(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parsePriceToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParsePriceToCents_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"not a number", "abc", e.ErrInvalidPrice},
		{"negative", "-10", e.ErrInvalidPrice},
		{"too many decimals", "10.555", e.ErrPricePrecision},
		{"over limit", "1000000001", e.ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parsePriceToCents(tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("parsePriceToCents(%q): expected %v, got %v", tc.in, tc.want, err)
			}
		})
	}

	if _, err := parsePriceToCents("  "); err == nil {
		t.Error("expected error for empty price")
	}
}

func TestParseIDParam(t *testing.T) {
	if id, err := parseIDParam("42"); err != nil || id != 42 {
		t.Errorf("parseIDParam(42) = %d, %v", id, err)
	}

	for _, in := range []string{"0", "-1", "abc", ""} {
		if _, err := parseIDParam(in); !errors.Is(err, e.ErrStatusBadRequest) {
			t.Errorf("parseIDParam(%q): expected ErrStatusBadRequest, got %v", in, err)
		}
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("1, 2,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("unexpected ids: %v", ids)
	}

	if _, err := parseIDList(""); !errors.Is(err, e.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
	if _, err := parseIDList("1,x"); !errors.Is(err, e.ErrStatusBadRequest) {
		t.Errorf("expected ErrStatusBadRequest, got %v", err)
	}
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing fields", e.ErrMissingFields, http.StatusBadRequest},
		{"invalid price", e.ErrInvalidPrice, http.StatusBadRequest},
		{"product not found", e.ErrProductNotFound, http.StatusNotFound},
		{"quote not found", e.ErrQuoteNotFound, http.StatusNotFound},
		{"customer not found", e.ErrCustomerNotFound, http.StatusNotFound},
		{"insufficient stock", e.ErrInsufficientStock, http.StatusConflict},
		{"quote not pending", e.ErrQuoteNotPending, http.StatusConflict},
		{"transaction conflict", e.ErrTransactionConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", e.Wrap("SomeUseCase.Op", e.ErrQuoteNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := ToHTTPResponse(tc.err)
			if code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, code)
			}
		})
	}
}

func TestToHTTPResponse_TypedErrors(t *testing.T) {
	code, msg := ToHTTPResponse(&e.InsufficientStockError{
		ProductID: 7, Name: "Widget", Requested: 5, Available: 2,
	})
	if code != http.StatusConflict {
		t.Errorf("expected 409, got %d", code)
	}
	// Типизированная ошибка несёт детали для пользователя
	if msg == e.ErrInsufficientStock.Error() {
		t.Errorf("expected detailed message, got %q", msg)
	}

	code, _ = ToHTTPResponse(&e.ProductNotFoundError{ProductID: 7})
	if code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}
