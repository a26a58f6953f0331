package core

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// FormatCurrency Tests
// ----------------------------------------------------------------------------

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "grouping and cents", input: 1234.5, want: "$1,234.50"},
		{name: "zero", input: 0, want: "$0.00"},
		{name: "negative", input: -42, want: "-$42.00"},
		{name: "millions", input: 1000000, want: "$1,000,000.00"},
		{name: "rounds to cents", input: 1234.567, want: "$1,234.57"},
		{name: "half cent rounds up", input: 2.675, want: "$2.68"},
		{name: "half cent below one dollar ten", input: 1.005, want: "$1.01"},
		{name: "eighth", input: 0.125, want: "$0.13"},
		{name: "half cent with tens", input: 10.235, want: "$10.24"},
		{name: "negative half cent", input: -2.675, want: "-$2.68"},
		{name: "half cent string", input: "1.005", want: "$1.01"},
		{name: "small fraction", input: 0.5, want: "$0.50"},
		{name: "int64", input: int64(52000), want: "$52,000.00"},
		{name: "numeric string", input: "1500", want: "$1,500.00"},
		{name: "currency string", input: "$99", want: "$99.00"},
		{name: "grouped string", input: "USD 1,200", want: "$1,200.00"},
		{name: "negative string", input: "-7.25", want: "-$7.25"},
		{name: "json number", input: json.Number("12.5"), want: "$12.50"},
		{name: "non-numeric text", input: "abc", want: "abc"},
		{name: "lone minus", input: "-", want: "-"},
		{name: "two numbers", input: "1-2", want: "1-2"},
		{name: "bool", input: true, want: "true"},
		{name: "nil", input: nil, want: ""},
		{name: "empty string", input: "", want: ""},
		{name: "infinity", input: math.Inf(1), want: "Infinity"},
		{name: "nan", input: math.NaN(), want: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(tt.input)
			if got != tt.want {
				t.Errorf("FormatCurrency(%#v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Formatting a finite number and parsing it back recovers the value rounded
// to cents.
func TestFormatCurrency_RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.25, 19.99, 1234.5, -98765.43, 1e9, 52000}
	for _, v := range values {
		formatted := FormatCurrency(v)
		parsed, ok := ToNumber(strings.NewReplacer("$", "", ",", "").Replace(formatted))
		if !ok {
			t.Errorf("FormatCurrency(%v) = %q, which does not parse back", v, formatted)
			continue
		}
		want := math.Round(v*100) / 100
		if math.Abs(parsed-want) > 1e-9 {
			t.Errorf("round trip of %v = %v, want %v", v, parsed, want)
		}
	}
}

func TestFormatCurrency_TwoFractionDigits(t *testing.T) {
	for _, v := range []any{1, 2.1, 3.456, -0.4, "77"} {
		got := FormatCurrency(v)
		dot := strings.LastIndex(got, ".")
		if dot < 0 || len(got)-dot-1 != 2 {
			t.Errorf("FormatCurrency(%#v) = %q, want exactly two fraction digits", v, got)
		}
	}
}

// ----------------------------------------------------------------------------
// Formatter Tests
// ----------------------------------------------------------------------------

func TestPlainFormatter(t *testing.T) {
	if got := PlainFormatter(nil, nil, nil); got != "" {
		t.Errorf("PlainFormatter(nil) = %q, want empty", got)
	}
	if got := PlainFormatter(3.0, nil, nil); got != "3" {
		t.Errorf("PlainFormatter(3.0) = %q, want %q", got, "3")
	}
}

func TestFormatCell(t *testing.T) {
	row := map[string]any{"name": "Ann", "salary": 1234.5, "age": 41.0}

	tests := []struct {
		name   string
		header *ColumnHeader
		want   string
	}{
		{
			name:   "no formatter stringifies",
			header: &ColumnHeader{Value: "age"},
			want:   "41",
		},
		{
			name:   "currency formatter",
			header: &ColumnHeader{Value: "salary", Formatter: CurrencyFormatter},
			want:   "$1,234.50",
		},
		{
			name:   "absent value with currency",
			header: &ColumnHeader{Value: "bonus", Formatter: CurrencyFormatter},
			want:   "",
		},
		{
			name:   "absent value without formatter",
			header: &ColumnHeader{Value: "bonus"},
			want:   "",
		},
		{
			name: "formatter sees row and header",
			header: &ColumnHeader{
				Value: "name",
				Formatter: func(raw any, row Row, h *ColumnHeader) string {
					return h.Value + "=" + Stringify(raw) + "/" + Stringify(row.(map[string]any)["age"])
				},
			},
			want: "name=Ann/41",
		},
		{
			name: "formatter receives nil for absent",
			header: &ColumnHeader{
				Value: "missing",
				Formatter: func(raw any, _ Row, _ *ColumnHeader) string {
					if raw == nil {
						return "n/a"
					}
					return "present"
				},
			},
			want: "n/a",
		},
		{
			name:   "nil header",
			header: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(row, tt.header); got != tt.want {
				t.Errorf("FormatCell() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripNonNumeric(t *testing.T) {
	tests := map[string]string{
		"$1,234.50": "1234.50",
		"abc":       "",
		"-12 USD":   "-12",
		"":          "",
	}
	for in, want := range tests {
		if got := stripNonNumeric(in); got != want {
			t.Errorf("stripNonNumeric(%q) = %q, want %q", in, got, want)
		}
	}
}
