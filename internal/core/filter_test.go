package core

import (
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// Test Fixtures
// ----------------------------------------------------------------------------

func salaryHeaders() []ColumnHeader {
	return []ColumnHeader{
		{Text: "Name", Value: "name"},
		{Text: "Salary", Value: "salary", Filter: MoneyFilter(), Formatter: CurrencyFormatter},
	}
}

func departmentHeaders() []ColumnHeader {
	return []ColumnHeader{
		{Text: "ID", Value: "id", Filter: SelectFilter([]FilterItem{
			{Text: "A", Value: "A"},
			{Text: "B", Value: "B"},
			{Text: "C", Value: "C"},
		}, false)},
		{Text: "Department", Value: "name"},
	}
}

func departmentRows() []Row {
	return []Row{
		map[string]any{"id": "A", "name": "Engineering"},
		map[string]any{"id": "B", "name": "Design"},
		map[string]any{"id": "C", "name": "Sales"},
	}
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = Stringify(r.(map[string]any)["name"])
	}
	return out
}

// ----------------------------------------------------------------------------
// Scenario Tests
// ----------------------------------------------------------------------------

func TestFilterRows_MoneyAboveZero(t *testing.T) {
	headers := salaryHeaders()
	rows := []Row{
		map[string]any{"name": "Ann", "salary": 0.0},
		map[string]any{"name": "Bo", "salary": 500.0},
	}

	active := DeriveActiveFilters(headers, FilterState{"salary": "gt0"})
	got := names(FilterRows(rows, active))

	if !reflect.DeepEqual(got, []string{"Bo"}) {
		t.Errorf("FilterRows() = %v, want [Bo]", got)
	}
}

func TestFilterRows_SelectKeepsOrder(t *testing.T) {
	headers := departmentHeaders()
	active := DeriveActiveFilters(headers, FilterState{"id": []any{"C", "A"}})
	got := FilterRows(departmentRows(), active)

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.(map[string]any)["id"].(string)
	}
	if !reflect.DeepEqual(ids, []string{"A", "C"}) {
		t.Errorf("FilterRows() ids = %v, want [A C]", ids)
	}
}

// ----------------------------------------------------------------------------
// DeriveActiveFilters Tests
// ----------------------------------------------------------------------------

func TestDeriveActiveFilters(t *testing.T) {
	headers := append(salaryHeaders(), departmentHeaders()[0])

	tests := []struct {
		name      string
		state     FilterState
		wantKinds []FilterKind
	}{
		{name: "empty state", state: FilterState{}, wantKinds: nil},
		{name: "blank text", state: FilterState{"name": "   "}, wantKinds: nil},
		{name: "text", state: FilterState{"name": " An "}, wantKinds: []FilterKind{FilterText}},
		{name: "money all", state: FilterState{"salary": ""}, wantKinds: nil},
		{name: "money junk collapses", state: FilterState{"salary": "gte0"}, wantKinds: nil},
		{name: "money non-string collapses", state: FilterState{"salary": 5}, wantKinds: nil},
		{name: "money eq0", state: FilterState{"salary": "eq0"}, wantKinds: []FilterKind{FilterMoney}},
		{name: "empty selection", state: FilterState{"id": []any{}}, wantKinds: nil},
		{name: "selection of nils", state: FilterState{"id": []any{nil}}, wantKinds: nil},
		{name: "non-slice selection", state: FilterState{"id": "A"}, wantKinds: nil},
		{name: "string slice selection", state: FilterState{"id": []string{"A"}}, wantKinds: []FilterKind{FilterSelect}},
		{
			name:      "header order",
			state:     FilterState{"id": []any{"A"}, "name": "a", "salary": "gt0"},
			wantKinds: []FilterKind{FilterText, FilterMoney, FilterSelect},
		},
		{name: "unknown key ignored", state: FilterState{"nope": "x"}, wantKinds: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := DeriveActiveFilters(headers, tt.state)
			var kinds []FilterKind
			for _, f := range active {
				kinds = append(kinds, f.Kind)
			}
			if !reflect.DeepEqual(kinds, tt.wantKinds) {
				t.Errorf("kinds = %v, want %v", kinds, tt.wantKinds)
			}
		})
	}
}

func TestDeriveActiveFilters_NormalizesText(t *testing.T) {
	active := DeriveActiveFilters(salaryHeaders(), FilterState{"name": "  ANN "})
	if len(active) != 1 || active[0].Text != "ann" {
		t.Fatalf("active = %+v, want one filter with text %q", active, "ann")
	}
}

// ----------------------------------------------------------------------------
// CellMatches Tests
// ----------------------------------------------------------------------------

func TestCellMatches_Text(t *testing.T) {
	f := ActiveFilter{Kind: FilterText, Text: "an"}

	tests := []struct {
		name    string
		raw     any
		present bool
		want    bool
	}{
		{name: "substring", raw: "Ann", present: true, want: true},
		{name: "case-insensitive", raw: "JOANNA", present: true, want: true},
		{name: "no match", raw: "Bo", present: true, want: false},
		{name: "absent", raw: nil, present: false, want: false},
		{name: "number stringified", raw: 1500.0, present: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellMatches(tt.raw, tt.present, f); got != tt.want {
				t.Errorf("CellMatches(%#v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	numeric := ActiveFilter{Kind: FilterText, Text: "150"}
	if !CellMatches(1500.0, true, numeric) {
		t.Error("numbers should match on their text form")
	}
}

func TestCellMatches_Money(t *testing.T) {
	eq0 := ActiveFilter{Kind: FilterMoney, Condition: MoneyZero}
	gt0 := ActiveFilter{Kind: FilterMoney, Condition: MoneyAbove}

	tests := []struct {
		name    string
		raw     any
		present bool
		wantEq0 bool
		wantGt0 bool
	}{
		{name: "zero", raw: 0.0, present: true, wantEq0: true},
		{name: "positive", raw: 500.0, present: true, wantGt0: true},
		{name: "negative", raw: -5.0, present: true},
		{name: "absent counts as zero", raw: nil, present: false, wantEq0: true},
		{name: "empty string counts as zero", raw: "", present: true, wantEq0: true},
		{name: "numeric string", raw: "12.5", present: true, wantGt0: true},
		{name: "non-numeric string", raw: "n/a", present: true, wantEq0: true},
		{name: "int", raw: 3, present: true, wantGt0: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellMatches(tt.raw, tt.present, eq0); got != tt.wantEq0 {
				t.Errorf("eq0 match = %v, want %v", got, tt.wantEq0)
			}
			if got := CellMatches(tt.raw, tt.present, gt0); got != tt.wantGt0 {
				t.Errorf("gt0 match = %v, want %v", got, tt.wantGt0)
			}
		})
	}
}

func TestCellMatches_SelectNoCoercion(t *testing.T) {
	f := ActiveFilter{Kind: FilterSelect, Values: []any{"1", 2.0}}

	tests := []struct {
		name    string
		raw     any
		present bool
		want    bool
	}{
		{name: "string value", raw: "1", present: true, want: true},
		{name: "number does not match string", raw: 1.0, present: true, want: false},
		{name: "float value", raw: 2.0, present: true, want: true},
		{name: "int does not match float", raw: 2, present: true, want: false},
		{name: "absent", raw: nil, present: false, want: false},
		{name: "non-comparable", raw: []any{"1"}, present: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellMatches(tt.raw, tt.present, f); got != tt.want {
				t.Errorf("CellMatches(%#v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// boxed is comparable by type but may hold an uncomparable value.
type boxed struct{ X any }

func TestCellMatches_SelectUncomparableValues(t *testing.T) {
	f := ActiveFilter{Kind: FilterSelect, Values: []any{boxed{X: []int{1}}, boxed{X: "ok"}}}

	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{name: "slice inside struct", raw: boxed{X: []int{1}}, want: false},
		{name: "map inside struct", raw: boxed{X: map[string]int{}}, want: false},
		{name: "comparable inside struct", raw: boxed{X: "ok"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellMatches(tt.raw, true, f); got != tt.want {
				t.Errorf("CellMatches(%#v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Property Tests
// ----------------------------------------------------------------------------

// For any money column, eq0 and gt0 partition the rows whose value is not
// negative.
func TestFilterRows_MoneyPartition(t *testing.T) {
	headers := salaryHeaders()
	rows := []Row{
		map[string]any{"name": "a", "salary": 0.0},
		map[string]any{"name": "b", "salary": 10.0},
		map[string]any{"name": "c"},
		map[string]any{"name": "d", "salary": ""},
		map[string]any{"name": "e", "salary": "x"},
		map[string]any{"name": "f", "salary": 0.01},
	}

	zero := FilterRows(rows, DeriveActiveFilters(headers, FilterState{"salary": "eq0"}))
	above := FilterRows(rows, DeriveActiveFilters(headers, FilterState{"salary": "gt0"}))

	if len(zero)+len(above) != len(rows) {
		t.Fatalf("eq0 (%d) + gt0 (%d) != %d", len(zero), len(above), len(rows))
	}
	if !reflect.DeepEqual(names(zero), []string{"a", "c", "d", "e"}) {
		t.Errorf("eq0 = %v", names(zero))
	}
	if !reflect.DeepEqual(names(above), []string{"b", "f"}) {
		t.Errorf("gt0 = %v", names(above))
	}
}

func TestFilterRows_NoFiltersIsIdentity(t *testing.T) {
	rows := departmentRows()
	got := FilterRows(rows, DeriveActiveFilters(departmentHeaders(), FilterState{"name": ""}))
	if len(got) != len(rows) || &got[0] != &rows[0] {
		t.Error("FilterRows with no active filters should return the input slice")
	}
}

func TestFilterRows_Idempotent(t *testing.T) {
	headers := departmentHeaders()
	active := DeriveActiveFilters(headers, FilterState{"name": "e"})
	once := FilterRows(departmentRows(), active)
	twice := FilterRows(once, active)
	if !reflect.DeepEqual(names(once), names(twice)) {
		t.Errorf("filtering twice = %v, once = %v", names(twice), names(once))
	}
}

func TestFilterRows_SubsetInOrder(t *testing.T) {
	rows := []Row{
		map[string]any{"name": "Anna"},
		map[string]any{"name": "Bo"},
		map[string]any{"name": "Hannah"},
		map[string]any{"name": "Ian"},
	}
	got := names(FilterRows(rows, DeriveActiveFilters(salaryHeaders(), FilterState{"name": "an"})))
	if !reflect.DeepEqual(got, []string{"Anna", "Hannah", "Ian"}) {
		t.Errorf("FilterRows() = %v", got)
	}
}

func TestRowMatches_AllFiltersMustPass(t *testing.T) {
	headers := salaryHeaders()
	active := DeriveActiveFilters(headers, FilterState{"name": "ann", "salary": "gt0"})

	if RowMatches(map[string]any{"name": "Ann", "salary": 0.0}, active) {
		t.Error("row failing the money filter should not match")
	}
	if !RowMatches(map[string]any{"name": "Ann", "salary": 1.0}, active) {
		t.Error("row passing both filters should match")
	}
	if !RowMatches(map[string]any{}, nil) {
		t.Error("no filters should match every row")
	}
}

// ----------------------------------------------------------------------------
// SeedFilters Tests
// ----------------------------------------------------------------------------

func TestSeedFilters(t *testing.T) {
	state := FilterState{"name": "kept", "gone": "stale"}
	headers := append(salaryHeaders(), departmentHeaders()[0])

	SeedFilters(state, headers)

	if state["name"] != "kept" {
		t.Errorf("existing entry overwritten: %v", state["name"])
	}
	if state["gone"] != "stale" {
		t.Error("entries for removed columns should be kept")
	}
	if state["salary"] != "" {
		t.Errorf("money seed = %#v, want empty string", state["salary"])
	}
	if sel, ok := state["id"].([]any); !ok || len(sel) != 0 {
		t.Errorf("select seed = %#v, want empty slice", state["id"])
	}
}

// ----------------------------------------------------------------------------
// ParseFilterInput Tests
// ----------------------------------------------------------------------------

func TestParseFilterInput(t *testing.T) {
	text := &ColumnHeader{Value: "name"}
	money := &ColumnHeader{Value: "salary", Filter: MoneyFilter()}
	sel := &ColumnHeader{Value: "id", Filter: SelectFilter([]FilterItem{
		{Text: "Alpha", Value: "A"},
		{Text: "Two", Value: 2.0},
	}, true)}

	tests := []struct {
		name   string
		header *ColumnHeader
		inputs []string
		want   any
	}{
		{name: "text joins", header: text, inputs: []string{"an", "n"}, want: "an n"},
		{name: "text empty", header: text, inputs: nil, want: ""},
		{name: "money condition", header: money, inputs: []string{" gt0 "}, want: "gt0"},
		{name: "money junk", header: money, inputs: []string{"lots"}, want: ""},
		{name: "money empty", header: money, inputs: nil, want: ""},
		{name: "select by value", header: sel, inputs: []string{"A"}, want: []any{"A"}},
		{name: "select typed value", header: sel, inputs: []string{"2"}, want: []any{2.0}},
		{name: "select by text", header: sel, inputs: []string{"alpha"}, want: []any{"A"}},
		{name: "select comma list", header: sel, inputs: []string{"A, 2"}, want: []any{"A", 2.0}},
		{name: "select drops unknown", header: sel, inputs: []string{"Z", ""}, want: []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFilterInput(tt.header, tt.inputs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFilterInput() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeMoneyCondition(t *testing.T) {
	tests := []struct {
		input any
		want  MoneyCondition
	}{
		{input: "eq0", want: MoneyZero},
		{input: "gt0", want: MoneyAbove},
		{input: MoneyAbove, want: MoneyAbove},
		{input: "", want: MoneyAll},
		{input: "EQ0", want: MoneyAll},
		{input: nil, want: MoneyAll},
		{input: 0, want: MoneyAll},
	}
	for _, tt := range tests {
		if got := NormalizeMoneyCondition(tt.input); got != tt.want {
			t.Errorf("NormalizeMoneyCondition(%#v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestColumnHeader_FilterKind(t *testing.T) {
	var nilHeader *ColumnHeader
	tests := []struct {
		name   string
		header *ColumnHeader
		want   FilterKind
	}{
		{name: "nil header", header: nilHeader, want: FilterText},
		{name: "no spec", header: &ColumnHeader{}, want: FilterText},
		{name: "unknown kind", header: &ColumnHeader{Filter: &FilterSpec{Kind: "date"}}, want: FilterText},
		{name: "money", header: &ColumnHeader{Filter: MoneyFilter()}, want: FilterMoney},
		{name: "select", header: &ColumnHeader{Filter: SelectFilter(nil, false)}, want: FilterSelect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.header.FilterKind(); got != tt.want {
				t.Errorf("FilterKind() = %q, want %q", got, tt.want)
			}
		})
	}
}
