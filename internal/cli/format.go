// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/model"

	"github.com/shopspring/decimal"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return groupDigits(strconv.FormatInt(n, 10))
}

// FormatWhole truncates d toward zero and adds comma separators. It works on
// the decimal's digits, so magnitudes beyond int64 format correctly.
// e.g., 12345.9 -> "12,345"
func FormatWhole(d decimal.Decimal) string {
	return groupDigits(d.Truncate(0).String())
}

// groupDigits inserts separators into a base-10 integer string with an
// optional leading minus sign.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatMoney formats an amount truncated to whole units with separators.
// e.g., ("₹", 12345.9) -> "₹12,345"
func FormatMoney(currency string, d decimal.Decimal) string {
	return currency + FormatWhole(d)
}

// FormatMoneyDelta formats a change in money with an explicit sign.
func FormatMoneyDelta(currency string, d decimal.Decimal) string {
	w := d.Truncate(0)
	if w.IsNegative() {
		return "-" + currency + FormatWhole(w.Neg())
	}
	return "+" + currency + FormatWhole(w)
}

// FormatRunway formats a runway in months with one decimal, or "∞".
func FormatRunway(r model.Runway) string {
	if r.Unbounded() {
		return "∞"
	}
	return r.Format(1) + " mo"
}

// FormatPercent formats a percentage change with sign and one decimal.
// e.g., 10 -> "+10.0%"
func FormatPercent(pct decimal.Decimal) string {
	s := pct.StringFixed(1) + "%"
	if !pct.IsNegative() {
		s = "+" + s
	}
	return s
}

// FormatValue renders a baseline field for display: numbers with separators
// (keeping any fraction), text unchanged.
func FormatValue(v model.Value) string {
	d, ok := v.Decimal()
	if !ok {
		return v.Raw()
	}
	w := d.Truncate(0)
	whole := FormatWhole(w)
	frac := d.Sub(w).Abs()
	if frac.IsZero() {
		return whole
	}
	if d.IsNegative() && w.IsZero() {
		whole = "-0"
	}
	fs := frac.String()
	return fmt.Sprintf("%s%s", whole, strings.TrimPrefix(fs, "0"))
}
