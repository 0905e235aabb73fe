// Package core provides amount parsing and rounding utilities.
//
// Amounts are float64 throughout the ledger. Rounding for display and
// percentage math goes through shopspring/decimal so that half-way values
// round the same way on every platform.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional leading sign and surrounding whitespace. Zero and malformed values
// are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("-12,5")  -> -12.5, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsZero() {
		return 0, ErrInvalidAmount
	}
	return d.InexactFloat64(), nil
}

// MaxAmount bounds the magnitude of any stored amount, keeping every sum
// and percentage the aggregates compute finite.
const MaxAmount = 1e12

// MinBudgetAmount is the smallest budget ceiling, one cent.
const MinBudgetAmount = 0.01

// Round2 rounds half away from zero to two decimal places. NaN and ±Inf are
// returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
