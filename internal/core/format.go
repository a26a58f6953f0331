package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencyPrinter renders amounts with US digit grouping.
// message.Printer is safe for concurrent use once created.
var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// PlainFormatter renders a value as text. Absent values render as "".
func PlainFormatter(raw any, _ Row, _ *ColumnHeader) string {
	return Stringify(raw)
}

// CurrencyFormatter renders a value as US dollars. See FormatCurrency.
func CurrencyFormatter(raw any, _ Row, _ *ColumnHeader) string {
	return FormatCurrency(raw)
}

// FormatCurrency renders v as US currency with exactly two fraction digits:
// 1234.5 -> "$1,234.50", -42 -> "-$42.00".
//
// nil and "" render as "". Strings are stripped of everything except
// digits, '.' and '-' before parsing ("USD 1,200" -> 1200). When the result
// is not a finite number the original value is returned as plain text with
// no currency symbol ("abc" -> "abc").
func FormatCurrency(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok && s == "" {
		return ""
	}

	amount, ok := currencyAmount(v)
	if !ok {
		return Stringify(v)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + currencyPrinter.Sprint(number.Decimal(roundCents(amount), number.Scale(2)))
}

// roundCents rounds to two places, half away from zero, on the shortest
// decimal form of f, so 2.675 becomes 2.68 even though its binary value is
// just below.
func roundCents(f float64) float64 {
	rounded, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return rounded
}

// currencyAmount coerces a value for currency display.
func currencyAmount(v any) (float64, bool) {
	var n float64
	if isScalar(v) {
		if _, isBool := v.(bool); isBool {
			return 0, false
		}
		f, ok := ToNumber(v)
		if !ok {
			return 0, false
		}
		n = f
	} else {
		f, err := strconv.ParseFloat(stripNonNumeric(Stringify(v)), 64)
		if err != nil {
			return 0, false
		}
		n = f
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// stripNonNumeric keeps only digits, '.' and '-'.
func stripNonNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// FormatCell resolves and formats one cell. Headers without a formatter
// display the raw value as text.
func FormatCell(row Row, h *ColumnHeader) string {
	if h == nil {
		return ""
	}
	raw, _ := Resolve(row, h)
	if h.Formatter == nil {
		return Stringify(raw)
	}
	return h.Formatter(raw, row, h)
}
