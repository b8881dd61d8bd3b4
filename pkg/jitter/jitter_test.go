package jitter

import (
	"math/rand"
	"testing"
	"time"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 100; i++ {
		got := Duration(base, DefaultJitter)
		if got < base || got > base+base/2 {
			t.Fatalf("Duration out of bounds: %v", got)
		}
	}
}

func TestDurationWithSeed_Deterministic(t *testing.T) {
	base := 100 * time.Millisecond

	a := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))
	b := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))
	if a != b {
		t.Errorf("expected deterministic result, got %v and %v", a, b)
	}
}

func TestExponentialBackoff_Growth(t *testing.T) {
	base := 50 * time.Millisecond
	max := time.Second

	cases := []struct {
		attempt int
		minWant time.Duration
	}{
		{0, 50 * time.Millisecond},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
	}

	for _, tc := range cases {
		got := ExponentialBackoff(base, max, tc.attempt, 0)
		if got != tc.minWant {
			t.Errorf("attempt %d: expected %v, got %v", tc.attempt, tc.minWant, got)
		}
	}
}

func TestExponentialBackoff_CappedAtMax(t *testing.T) {
	base := 50 * time.Millisecond
	max := time.Second

	got := ExponentialBackoff(base, max, 10, 0)
	if got != max {
		t.Errorf("expected cap at %v, got %v", max, got)
	}
}
