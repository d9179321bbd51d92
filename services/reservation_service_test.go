package services

import (
	"errors"
	"testing"
)

func TestHasCapacity(t *testing.T) {
	cases := []struct {
		reserved  int64
		requested int
		capacity  int
		want      bool
	}{
		{0, 1, 4, true},
		{3, 1, 4, true},
		{3, 2, 4, false},
		{4, 1, 4, false},
		{0, 1, 0, false},
		{0, 4, 4, true},
	}
	for _, tc := range cases {
		if got := hasCapacity(tc.reserved, tc.requested, tc.capacity); got != tc.want {
			t.Errorf("hasCapacity(%d, %d, %d) = %v, want %v", tc.reserved, tc.requested, tc.capacity, got, tc.want)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name            string
		price           float64
		participants    int
		productSubtotal float64
		discount        *DiscountSelector
		original        float64
		discountAmount  float64
		final           float64
	}{
		{"no discount", 40, 2, 0, nil, 80, 0, 80},
		{"with products", 40, 2, 25.50, nil, 105.50, 0, 105.50},
		{"percentage off", 40, 2, 20, &DiscountSelector{Percentage: 20}, 100, 20, 80},
		{"rounding", 33.33, 1, 0, &DiscountSelector{Percentage: 15}, 33.33, 5, 28.33},
		{"full discount", 40, 2, 0, &DiscountSelector{Percentage: 100}, 80, 80, 0},
		{"clamped at zero", 40, 1, 0, &DiscountSelector{Percentage: 150}, 40, 60, 0},
	}
	for _, tc := range cases {
		original, discountAmount, final := computeTotals(tc.price, tc.participants, tc.productSubtotal, tc.discount)
		if original != tc.original || discountAmount != tc.discountAmount || final != tc.final {
			t.Errorf("%s: computeTotals = (%v, %v, %v), want (%v, %v, %v)",
				tc.name, original, discountAmount, final, tc.original, tc.discountAmount, tc.final)
		}
	}
}

func TestNormalizeGuestDetails(t *testing.T) {
	name, email, err := normalizeGuestDetails("  Kai Moana  ", " Kai@Example.COM ")
	if err != nil {
		t.Fatalf("valid guest details rejected: %v", err)
	}
	if name != "Kai Moana" || email != "kai@example.com" {
		t.Errorf("normalized to (%q, %q), want trimmed name and lowercased email", name, email)
	}

	rejected := []struct {
		name  string
		email string
	}{
		{"", "kai@example.com"},
		{"Kai Moana", ""},
		{"   ", "kai@example.com"},
		{"Kai Moana", "   "},
		{"", ""},
	}
	for _, tc := range rejected {
		if _, _, err := normalizeGuestDetails(tc.name, tc.email); !errors.Is(err, ErrGuestDetailsMissing) {
			t.Errorf("normalizeGuestDetails(%q, %q) = %v, want ErrGuestDetailsMissing", tc.name, tc.email, err)
		}
	}
}
