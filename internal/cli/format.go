// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

var hundred = decimal.NewFromInt(100)

// FormatMoney formats an amount as dollars with thousands separators.
// e.g., 1234.5 -> "$1,234.50", -100 -> "-$100.00"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	return "$" + groupThousands(whole) + "." + frac
}

// FormatSigned formats an amount with an explicit sign.
// e.g., 50 -> "+$50.00", -20 -> "-$20.00"
func FormatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatMoney(d)
	}
	return "+" + FormatMoney(d)
}

// FormatPercent formats a 0-100 percentage with one decimal.
// e.g., 40 -> "40.0%"
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// FormatPercentWhole formats a 0-100 percentage without decimals when it is whole.
// e.g., 50 -> "50%", 33.5 -> "33.5%"
func FormatPercentWhole(p decimal.Decimal) string {
	if p.Equal(p.Truncate(0)) {
		return p.StringFixed(0) + "%"
	}
	return p.String() + "%"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return groupThousands(decimal.NewFromInt(n).String())
}

func groupThousands(s string) string {
	if strings.HasPrefix(s, "-") {
		return "-" + groupThousands(s[1:])
	}
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDate formats a calendar date, or "-" when unset.
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// Ordinal formats a day of month. e.g., 1 -> "1st", 22 -> "22nd"
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return decimal.NewFromInt(int64(n)).String() + suffix
}

// ClampPercent limits a percentage to 0-100 for progress bars.
func ClampPercent(p decimal.Decimal) float64 {
	switch {
	case p.IsNegative():
		return 0
	case p.GreaterThan(hundred):
		return 1
	}
	return p.Div(hundred).InexactFloat64()
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
