package core

// Row is an opaque record. The engine never assumes a shape beyond what a
// header's value path or GetValue accessor extracts.
type Row = any

// ValueFunc extracts a raw value from a row. A nil result means absent.
type ValueFunc func(row Row, h *ColumnHeader) any

// FormatFunc converts a raw cell value to display text.
// raw is nil when the resolver found no value.
type FormatFunc func(raw any, row Row, h *ColumnHeader) string

// ColumnHeader describes one column of a table.
type ColumnHeader struct {
	Text      string      // Display label
	Value     string      // Value path or logical key, unique per header set
	Width     string      // Display hint, e.g. "140px"
	Filter    *FilterSpec // nil means a free-text filter
	Formatter FormatFunc  // nil means the raw value stringified
	GetValue  ValueFunc   // nil means path lookup on Value
}

// FilterKind returns the column's filter kind. Missing or unknown specs
// are treated as text.
func (h *ColumnHeader) FilterKind() FilterKind {
	if h == nil || h.Filter == nil {
		return FilterText
	}
	switch h.Filter.Kind {
	case FilterMoney, FilterSelect:
		return h.Filter.Kind
	default:
		return FilterText
	}
}

// FilterKind identifies the filter widget and matching rule for a column.
type FilterKind string

const (
	FilterText   FilterKind = "text"
	FilterMoney  FilterKind = "money"
	FilterSelect FilterKind = "select"
)

// MoneyCondition is the state of a money filter.
type MoneyCondition string

const (
	MoneyAll   MoneyCondition = ""
	MoneyZero  MoneyCondition = "eq0"
	MoneyAbove MoneyCondition = "gt0"
)

// FilterItem is one option of a money or select filter.
type FilterItem struct {
	Text  string
	Value any
}

// FilterSpec is the declarative filter configuration of a column.
type FilterSpec struct {
	Kind        FilterKind
	Placeholder string       // text only
	Items       []FilterItem // money and select
	Multiple    bool         // select only; always true for SelectFilter
	Clearable   bool         // select only
}

// FilterState maps column keys to the current filter input: a string for
// text columns, a condition code for money columns and a slice of selected
// values for select columns.
type FilterState map[string]any

// ActiveFilter is a normalized, non-empty filter derived from a FilterState.
// Only one of Text, Condition or Values is meaningful, depending on Kind.
type ActiveFilter struct {
	Kind      FilterKind
	Header    *ColumnHeader
	Text      string         // lowercase, trimmed
	Condition MoneyCondition // MoneyZero or MoneyAbove
	Values    []any          // non-empty, no nil entries
}
