package core

import (
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// ParsePath Tests
// ----------------------------------------------------------------------------

func TestParsePath(t *testing.T) {
	tests := []struct {
		input string
		want  Path
	}{
		{input: "name", want: Path{"name"}},
		{input: "expenses[2].value", want: Path{"expenses", "2", "value"}},
		{input: "a.0.b", want: Path{"a", "0", "b"}},
		{input: `a["x"].b`, want: Path{"a", "x", "b"}},
		{input: "a[0][1]", want: Path{"a", "0", "1"}},
		{input: "a..b", want: Path{"a", "b"}},
		{input: "", want: Path{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParsePath(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePath_Cached(t *testing.T) {
	first := ParsePath("salaries[3].amount")
	second := ParsePath("salaries[3].amount")
	if &first[0] != &second[0] {
		t.Error("expected the second parse to reuse the cached path")
	}
}

// ----------------------------------------------------------------------------
// Resolve Tests
// ----------------------------------------------------------------------------

func personRow() map[string]any {
	return map[string]any{
		"name":   "Ann",
		"salary": 0.0,
		"note":   "",
		"manager": map[string]any{
			"name": "Bo",
		},
		"expenses": []any{
			map[string]any{"value": 1.0},
			map[string]any{"value": 2.0},
			map[string]any{"value": 3.0},
		},
	}
}

func TestResolve_Paths(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		want        any
		wantPresent bool
	}{
		{name: "plain key", path: "name", want: "Ann", wantPresent: true},
		{name: "zero is present", path: "salary", want: 0.0, wantPresent: true},
		{name: "empty string is present", path: "note", want: "", wantPresent: true},
		{name: "nested key", path: "manager.name", want: "Bo", wantPresent: true},
		{name: "indexed path", path: "expenses[2].value", want: 3.0, wantPresent: true},
		{name: "dot index", path: "expenses.0.value", want: 1.0, wantPresent: true},
		{name: "missing key", path: "role", wantPresent: false},
		{name: "missing intermediate short-circuits", path: "team.lead.name", wantPresent: false},
		{name: "index out of range", path: "expenses[5].value", wantPresent: false},
		{name: "negative index", path: "expenses[-1].value", wantPresent: false},
		{name: "index into scalar", path: "name.first", wantPresent: false},
	}

	row := personRow()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := Resolve(row, &ColumnHeader{Value: tt.path})
			if present != tt.wantPresent {
				t.Fatalf("Resolve(%q) present = %v, want %v", tt.path, present, tt.wantPresent)
			}
			if present && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_NilInputs(t *testing.T) {
	if _, present := Resolve(nil, &ColumnHeader{Value: "name"}); present {
		t.Error("nil row should be absent")
	}
	if _, present := Resolve(personRow(), nil); present {
		t.Error("nil header should be absent")
	}
}

func TestResolve_NullValueIsAbsent(t *testing.T) {
	row := map[string]any{"name": nil, "items": []any{nil}}
	if _, present := Resolve(row, &ColumnHeader{Value: "name"}); present {
		t.Error("null value should be absent")
	}
	if _, present := Resolve(row, &ColumnHeader{Value: "items[0].value"}); present {
		t.Error("null intermediate should be absent")
	}
}

func TestResolve_GetValue(t *testing.T) {
	var gotHeader *ColumnHeader
	h := &ColumnHeader{
		Value: "total",
		GetValue: func(row Row, h *ColumnHeader) any {
			gotHeader = h
			sum := 0.0
			for _, e := range row.(map[string]any)["expenses"].([]any) {
				sum += e.(map[string]any)["value"].(float64)
			}
			return sum
		},
	}

	got, present := Resolve(personRow(), h)
	if !present || got != 6.0 {
		t.Errorf("Resolve with GetValue = %#v, %v; want 6, true", got, present)
	}
	if gotHeader != h {
		t.Error("GetValue should receive the header")
	}
}

func TestResolve_GetValueNilIsAbsent(t *testing.T) {
	h := &ColumnHeader{
		Value:    "name",
		GetValue: func(Row, *ColumnHeader) any { return nil },
	}
	if _, present := Resolve(personRow(), h); present {
		t.Error("nil from GetValue should be absent even when the path exists")
	}
}

type expense struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type person struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Expenses []expense `json:"expenses"`
	Boss     *person   `json:"boss,omitempty"`
	Tags     map[string]string
	secret   string
}

func TestResolve_Structs(t *testing.T) {
	p := &person{
		ID:       1,
		Name:     "Ann",
		Expenses: []expense{{Month: "Jan", Value: 10}, {Month: "Feb", Value: 20}},
		Tags:     map[string]string{"team": "core"},
		secret:   "x",
	}

	tests := []struct {
		name        string
		path        string
		want        any
		wantPresent bool
	}{
		{name: "json tag", path: "name", want: "Ann", wantPresent: true},
		{name: "field name case-insensitive", path: "ID", want: 1, wantPresent: true},
		{name: "indexed struct slice", path: "expenses[1].value", want: 20.0, wantPresent: true},
		{name: "typed map", path: "Tags.team", want: "core", wantPresent: true},
		{name: "nil pointer", path: "boss.name", wantPresent: false},
		{name: "unexported field", path: "secret", wantPresent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := Resolve(p, &ColumnHeader{Value: tt.path})
			if present != tt.wantPresent {
				t.Fatalf("Resolve(%q) present = %v, want %v", tt.path, present, tt.wantPresent)
			}
			if present && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

// Scenario: "expenses[2].value" on {expenses: [{value:1},{value:2},{value:3}]} is 3.
func TestResolve_IndexedPathScenario(t *testing.T) {
	row := map[string]any{
		"expenses": []any{
			map[string]any{"value": 1.0},
			map[string]any{"value": 2.0},
			map[string]any{"value": 3.0},
		},
	}
	got, present := Resolve(row, &ColumnHeader{Value: "expenses[2].value"})
	if !present || got != 3.0 {
		t.Errorf("got %#v, %v; want 3, true", got, present)
	}
}
