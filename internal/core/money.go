// Package core holds the normalized invoice domain model shared by the
// datastore adapters and the analytics engine.
//
// This file contains monetary amount parsing. Amounts arrive from the
// spreadsheet store in heterogeneous shapes (numbers, strings with currency
// symbols and thousand separators), so parsing is deliberately forgiving:
// it never fails, it falls back to zero.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a raw cell value into a decimal amount.
//
// Numeric values pass through unchanged. Strings are stripped of every rune
// other than digits, the decimal point and the minus sign before parsing.
// Anything unparseable yields 0; this function never returns an error.
//
// Examples:
//
//	ParseAmount("$1,200.50") -> 1200.5
//	ParseAmount("د.ع 3000")  -> 3000
//	ParseAmount("n/a")       -> 0
func ParseAmount(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		cleaned := stripNonNumeric(x)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Round2 rounds to two decimal places, half away from zero. All monetary
// aggregates are reported at cent precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round0 rounds to the nearest whole number. Used only for the dashboard's
// currency percentages, which are whole integers there and two-decimal
// everywhere else.
func Round0(v float64) float64 {
	return math.Round(v)
}
