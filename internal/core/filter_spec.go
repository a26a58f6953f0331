package core

import (
	"reflect"
	"strings"
)

// MoneyFilterItems are the options of every money filter.
var MoneyFilterItems = []FilterItem{
	{Text: "All", Value: string(MoneyAll)},
	{Text: "= 0", Value: string(MoneyZero)},
	{Text: "> 0", Value: string(MoneyAbove)},
}

// TextFilter returns a free-text filter spec.
func TextFilter(placeholder string) *FilterSpec {
	return &FilterSpec{Kind: FilterText, Placeholder: placeholder}
}

// MoneyFilter returns a money condition filter spec (All, = 0, > 0).
func MoneyFilter() *FilterSpec {
	items := make([]FilterItem, len(MoneyFilterItems))
	copy(items, MoneyFilterItems)
	return &FilterSpec{Kind: FilterMoney, Items: items}
}

// SelectFilter returns a multi-select filter spec over items.
func SelectFilter(items []FilterItem, clearable bool) *FilterSpec {
	return &FilterSpec{Kind: FilterSelect, Items: items, Multiple: true, Clearable: clearable}
}

// NormalizeMoneyCondition maps a state value to a money condition.
// Anything other than "eq0" or "gt0" collapses to MoneyAll (inactive).
func NormalizeMoneyCondition(v any) MoneyCondition {
	var s string
	switch val := v.(type) {
	case MoneyCondition:
		s = string(val)
	case string:
		s = val
	default:
		return MoneyAll
	}
	switch MoneyCondition(s) {
	case MoneyZero, MoneyAbove:
		return MoneyCondition(s)
	default:
		return MoneyAll
	}
}

// normalizeSelection converts select state to a slice of values with nil
// entries removed. Non-slice state is an empty selection.
func normalizeSelection(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item != nil {
				out = append(out, item)
			}
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

// InactiveValue returns the state value that leaves h unfiltered: an empty
// selection for select columns and "" otherwise.
func InactiveValue(h *ColumnHeader) any {
	if h.FilterKind() == FilterSelect {
		return []any{}
	}
	return ""
}

// ParseFilterInput converts transport values (form fields, CLI flags) into
// filter state for h.
//
// Text columns join the inputs with a space; money columns take the first
// input as a condition code. Select columns map each input to an item value,
// matching the item's stringified value or its text (case-insensitive);
// inputs that match no item are dropped.
func ParseFilterInput(h *ColumnHeader, inputs []string) any {
	switch h.FilterKind() {
	case FilterMoney:
		if len(inputs) == 0 {
			return string(MoneyAll)
		}
		return string(NormalizeMoneyCondition(strings.TrimSpace(inputs[0])))

	case FilterSelect:
		selected := make([]any, 0, len(inputs))
		for _, in := range inputs {
			for _, part := range strings.Split(in, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if item, ok := h.Filter.ItemByKey(part); ok {
					selected = append(selected, item.Value)
				}
			}
		}
		return selected

	default:
		return strings.Join(inputs, " ")
	}
}

// ItemByKey finds the item whose stringified value, or failing that whose
// text, equals key.
func (s *FilterSpec) ItemByKey(key string) (FilterItem, bool) {
	if s == nil {
		return FilterItem{}, false
	}
	for _, item := range s.Items {
		if Stringify(item.Value) == key {
			return item, true
		}
	}
	for _, item := range s.Items {
		if strings.EqualFold(item.Text, key) {
			return item, true
		}
	}
	return FilterItem{}, false
}

// ItemKey returns the transport key of an item value, the inverse of
// ItemByKey.
func ItemKey(v any) string {
	return Stringify(v)
}
