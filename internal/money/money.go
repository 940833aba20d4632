// Package money holds the defensive parsing and formatting rules for
// currency amounts. Prices travel through the system as raw user text and
// are only parsed here, at read time, so malformed input degrades to a safe
// default instead of an error.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts raw price text to a non-negative amount.
// Unparsable, NaN, infinite, or negative input coerces to 0.
func ParsePrice(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseQuantity converts raw quantity text to a positive count.
// Unparsable, zero, or negative input coerces to 1.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ClampQuantity enforces the minimum of 1 on an already-numeric quantity.
func ClampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// FormatPrice renders a non-negative amount for the wire: trailing zeros
// trimmed the way users type prices ("9.89", "5", "0.5").
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Display rounds an amount to two decimals for presentation. Internal
// accumulation stays unrounded; this is applied at the edge only.
func Display(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
