package core

// convert.go provides the scalar coercions shared by filtering, sorting and
// formatting.
//
// Rows usually come from decoded JSON or database rows, so a "number" may be
// a float64, an int, a json.Number or a numeric string. These helpers give
// every component the same answer for the same input:
//   - Stringify never fails; absent values become ""
//   - ToNumber reports whether a value is numeric-coercible
//   - moneyValue never fails; anything unusable is 0

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Stringify converts a raw cell value to text. nil becomes "".
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// formatFloat renders a float in its shortest form without exponent for
// ordinary magnitudes ("1234.5", "3", "-0.25").
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToNumber coerces v to a float64. The second result is false when v has no
// numeric reading: nil, blank strings, non-numeric strings, NaN and
// composite values.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeError(err) {
			return 0, false
		}
		f = n
	case json.Number:
		n, err := val.Float64()
		if err != nil && !isRangeError(err) {
			return 0, false
		}
		f = n
	default:
		if !isScalar(v) {
			return 0, false
		}
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, false
		}
		f = n
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// isRangeError reports whether a ParseFloat error only signals overflow, in
// which case the returned ±Inf is still a valid reading.
func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// isScalar reports whether v is a number or bool (including named types).
func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// moneyValue reads a cell for the money filter. Absent and empty values are
// zero; values that do not coerce to a finite number are zero as well.
func moneyValue(raw any, present bool) float64 {
	if !present || raw == nil {
		return 0
	}
	if s, ok := raw.(string); ok && s == "" {
		return 0
	}
	n, ok := ToNumber(raw)
	if !ok || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// equalValues compares two raw values with == semantics, without coercion.
// Values whose dynamic types are not comparable never match.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// safeEqual is a == b that reports false instead of panicking when a
// comparable type holds an uncomparable value, such as a slice in an
// interface field.
func safeEqual(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}
