package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxAmount            = 1_000_000_000
	MinTransactionAmount = 0.01
	currencyPrecision    = 2
)

// NumberBounds describes how ClampNumber coerces a raw value.
type NumberBounds struct {
	Fallback float64
	Min      float64
	Max      float64
}

var (
	// AmountBounds applies to planned and manual actual amounts.
	AmountBounds = NumberBounds{Fallback: 0, Min: 0, Max: MaxAmount}
	// TransactionAmountBounds applies to ledger amounts.
	TransactionAmountBounds = NumberBounds{Fallback: 0, Min: MinTransactionAmount, Max: MaxAmount}
)

var numericPrefixPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ClampNumber coerces raw into a finite number rounded to two decimals and
// clamped to bounds. Anything that is not a finite number yields
// bounds.Fallback unchanged.
func ClampNumber(raw any, bounds NumberBounds) float64 {
	value, ok := parseNumber(raw)
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return bounds.Fallback
	}

	rounded := RoundCurrency(value)
	if rounded < bounds.Min {
		return bounds.Min
	}
	if rounded > bounds.Max {
		return bounds.Max
	}
	return rounded
}

// ParseAmount reads a user supplied amount without clamping. The second
// return value is false when raw is not a finite number.
func ParseAmount(raw any) (float64, bool) {
	value, ok := parseNumber(raw)
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return RoundCurrency(value), true
}

// RoundCurrency rounds half away from zero to two decimals.
func RoundCurrency(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(currencyPrecision).InexactFloat64()
}

// SumCurrency adds values in decimal space and rounds the total.
func SumCurrency(values ...float64) float64 {
	total := decimal.Zero
	for _, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(value))
	}
	return total.Round(currencyPrecision).InexactFloat64()
}

// SubtractCurrency returns a-b rounded to two decimals.
func SubtractCurrency(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(currencyPrecision).InexactFloat64()
}

// Percentage returns part/whole*100 rounded to two decimals, or 0 when whole
// is not positive.
func Percentage(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	ratio := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole)).Mul(decimal.NewFromInt(100))
	return ratio.Round(currencyPrecision).InexactFloat64()
}

func parseNumber(raw any) (float64, bool) {
	switch value := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint:
		return float64(value), true
	case uint32:
		return float64(value), true
	case uint64:
		return float64(value), true
	case json.Number:
		return parseNumericString(value.String())
	case string:
		return parseNumericString(value)
	default:
		return 0, false
	}
}

func parseNumericString(raw string) (float64, bool) {
	match := numericPrefixPattern.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
