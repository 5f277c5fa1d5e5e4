package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestClampNumber(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		raw    any
		bounds NumberBounds
		want   float64
	}{
		{name: "float_in_range", raw: 125.5, bounds: AmountBounds, want: 125.5},
		{name: "rounds_half_away_from_zero", raw: "12.345", bounds: AmountBounds, want: 12.35},
		{name: "negative_clamps_to_min", raw: -100, bounds: AmountBounds, want: 0},
		{name: "above_max_clamps", raw: 2e9, bounds: AmountBounds, want: MaxAmount},
		{name: "not_a_number_uses_fallback", raw: "not-a-number", bounds: AmountBounds, want: 0},
		{name: "numeric_prefix", raw: "12abc", bounds: AmountBounds, want: 12},
		{name: "json_number", raw: json.Number("42.5"), bounds: AmountBounds, want: 42.5},
		{name: "nil_uses_fallback", raw: nil, bounds: NumberBounds{Fallback: 7, Min: 0, Max: 10}, want: 7},
		{name: "bool_uses_fallback", raw: true, bounds: NumberBounds{Fallback: 3, Min: 0, Max: 10}, want: 3},
		{name: "infinity_uses_fallback", raw: math.Inf(1), bounds: AmountBounds, want: 0},
		{name: "nan_uses_fallback", raw: math.NaN(), bounds: AmountBounds, want: 0},
		{name: "transaction_min", raw: 0.001, bounds: TransactionAmountBounds, want: MinTransactionAmount},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ClampNumber(tc.raw, tc.bounds)
			if got != tc.want {
				t.Fatalf("ClampNumber(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSumCurrencyAvoidsFloatDrift(t *testing.T) {
	t.Parallel()

	if got := SumCurrency(0.1, 0.2); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := SumCurrency(19.99, 5.01, math.NaN()); got != 25 {
		t.Fatalf("expected NaN to be skipped and total 25, got %v", got)
	}
	if got := SubtractCurrency(100, 33.33); got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	if got := Percentage(250, 1000); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := Percentage(1, 3); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := Percentage(50, 0); got != 0 {
		t.Fatalf("expected 0 for zero whole, got %v", got)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	if value, ok := ParseAmount("19.999"); !ok || value != 20 {
		t.Fatalf("expected 20, got %v ok=%v", value, ok)
	}
	if _, ok := ParseAmount("abc"); ok {
		t.Fatalf("expected abc to be rejected")
	}
}
