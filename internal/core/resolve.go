package core

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Path is a parsed value path: an ordered list of access steps.
// "expenses[2].value" parses to ["expenses", "2", "value"].
type Path []string

// pathCache memoizes parsed paths. Header paths are few and immutable, so
// entries are never evicted.
var pathCache sync.Map // string -> Path

// ParsePath parses a dot/bracket path. Bracket indexes are normalized to dot
// notation and surrounding quotes inside brackets are dropped, so
// `a[0].b`, `a.0.b` and `a["0"].b` are the same path. Empty steps are
// ignored. Results are cached per path string.
func ParsePath(s string) Path {
	if cached, ok := pathCache.Load(s); ok {
		return cached.(Path)
	}

	normalized := strings.NewReplacer("[", ".", "]", "").Replace(s)
	parts := strings.Split(normalized, ".")
	path := make(Path, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			path = append(path, p)
		}
	}

	pathCache.Store(s, path)
	return path
}

// Resolve extracts the raw value of a column from a row.
//
// If the header has a GetValue accessor its result is used verbatim.
// Otherwise the header's Value is walked as a path. The second result is
// false when the value is absent: nil row, nil header, a missing key, an
// out-of-range index, or a nil value anywhere along the path.
func Resolve(row Row, h *ColumnHeader) (any, bool) {
	if h == nil || row == nil {
		return nil, false
	}
	if h.GetValue != nil {
		v := h.GetValue(row, h)
		return v, v != nil
	}
	return Lookup(row, ParsePath(h.Value))
}

// Lookup walks path through row. Absence at any step short-circuits.
func Lookup(row Row, path Path) (any, bool) {
	cur := row
	for _, step := range path {
		next, ok := child(cur, step)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// child returns the member of v named by step.
func child(v any, step string) (any, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		val, ok := c[step]
		return val, ok && val != nil
	case []any:
		i, ok := index(step, len(c))
		if !ok {
			return nil, false
		}
		return c[i], c[i] != nil
	}
	return reflectChild(reflect.ValueOf(v), step)
}

// reflectChild handles typed maps, slices, arrays, structs and pointers.
func reflectChild(rv reflect.Value, step string) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	var out reflect.Value
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out = rv.MapIndex(reflect.ValueOf(step).Convert(rv.Type().Key()))
	case reflect.Slice, reflect.Array:
		i, ok := index(step, rv.Len())
		if !ok {
			return nil, false
		}
		out = rv.Index(i)
	case reflect.Struct:
		out = structField(rv, step)
	default:
		return nil, false
	}

	if !out.IsValid() || !out.CanInterface() {
		return nil, false
	}
	switch out.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if out.IsNil() {
			return nil, false
		}
	}
	return out.Interface(), true
}

// structField finds a field by json tag name first, then by field name
// (case-insensitive).
func structField(rv reflect.Value, name string) reflect.Value {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name {
			return rv.Field(i)
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}

// index parses a decimal slice index and checks it against n.
func index(step string, n int) (int, bool) {
	i, err := strconv.Atoi(step)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
