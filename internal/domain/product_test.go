package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		name   string
		stock  int
		status ProductStatus
		want   ProductStatus
	}{
		{"zero stock forces out of stock", 0, StatusAvailable, StatusOutOfStock},
		{"zero stock keeps discontinued out of stock", 0, StatusDiscontinued, StatusOutOfStock},
		{"restocked returns to available", 5, StatusOutOfStock, StatusAvailable},
		{"available stays available", 5, StatusAvailable, StatusAvailable},
		{"discontinued with stock stays discontinued", 5, StatusDiscontinued, StatusDiscontinued},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProduct("Widget", 100, "Tools", tc.stock, tc.status)
			if p.Status != tc.want {
				t.Errorf("expected %q, got %q", tc.want, p.Status)
			}
		})
	}
}

func TestValidProductStatus(t *testing.T) {
	for _, s := range []string{"Available", "Out of Stock", "Discontinued"} {
		if !ValidProductStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "available", "Sold Out"} {
		if ValidProductStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestQuoteItemTotal(t *testing.T) {
	item := QuoteItem{Price: 59999, Quantity: 3}
	if got := item.Total(); got != 179997 {
		t.Errorf("expected 179997, got %d", got)
	}
}
