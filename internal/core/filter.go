package core

import "strings"

// NormalizeFilterText lowercases and trims a text filter input.
func NormalizeFilterText(v any) string {
	return strings.ToLower(strings.TrimSpace(Stringify(v)))
}

// DeriveActiveFilters returns the filters that constrain rows, in header
// order. Columns whose state is inactive are omitted.
func DeriveActiveFilters(headers []ColumnHeader, state FilterState) []ActiveFilter {
	var active []ActiveFilter
	for i := range headers {
		h := &headers[i]
		v := state[h.Value]

		switch h.FilterKind() {
		case FilterMoney:
			cond := NormalizeMoneyCondition(v)
			if cond != MoneyAll {
				active = append(active, ActiveFilter{Kind: FilterMoney, Header: h, Condition: cond})
			}

		case FilterSelect:
			values := normalizeSelection(v)
			if len(values) > 0 {
				active = append(active, ActiveFilter{Kind: FilterSelect, Header: h, Values: values})
			}

		default:
			text := NormalizeFilterText(v)
			if text != "" {
				active = append(active, ActiveFilter{Kind: FilterText, Header: h, Text: text})
			}
		}
	}
	return active
}

// RowMatches reports whether row satisfies every filter. It stops at the
// first failing filter. No filters means every row matches.
func RowMatches(row Row, filters []ActiveFilter) bool {
	for i := range filters {
		raw, present := Resolve(row, filters[i].Header)
		if !CellMatches(raw, present, filters[i]) {
			return false
		}
	}
	return true
}

// CellMatches applies one filter to a resolved cell value.
func CellMatches(raw any, present bool, f ActiveFilter) bool {
	switch f.Kind {
	case FilterMoney:
		n := moneyValue(raw, present)
		if f.Condition == MoneyZero {
			return n == 0
		}
		return n > 0

	case FilterSelect:
		if !present {
			return false
		}
		for _, v := range f.Values {
			if equalValues(raw, v) {
				return true
			}
		}
		return false

	default:
		var cell string
		if present {
			cell = strings.ToLower(Stringify(raw))
		}
		return strings.Contains(cell, f.Text)
	}
}

// FilterRows returns the rows matching filters in their original order.
// With no filters the input slice itself is returned.
func FilterRows(rows []Row, filters []ActiveFilter) []Row {
	if len(filters) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if RowMatches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

// SeedFilters adds an inactive entry for every header missing from state.
// Existing entries, including ones for columns no longer present, are kept.
func SeedFilters(state FilterState, headers []ColumnHeader) {
	for i := range headers {
		if _, ok := state[headers[i].Value]; !ok {
			state[headers[i].Value] = InactiveValue(&headers[i])
		}
	}
}
