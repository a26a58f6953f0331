package datasets

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/JonMunkholm/datatable/internal/core"
)

func loadRows(t *testing.T, key string) []core.Row {
	t.Helper()
	d, err := core.Get(key)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", key, err)
	}
	var rows []any
	if err := json.Unmarshal(d.Sample, &rows); err != nil {
		t.Fatalf("decode %s sample: %v", key, err)
	}
	return rows
}

func buildHeaders(t *testing.T, key, set string) []core.ColumnHeader {
	t.Helper()
	d, err := core.Get(key)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", key, err)
	}
	cs, err := d.ColumnSet(set)
	if err != nil {
		t.Fatalf("ColumnSet(%s) error = %v", set, err)
	}
	return cs.Build()
}

// ----------------------------------------------------------------------------
// Registration Tests
// ----------------------------------------------------------------------------

func TestRegistered(t *testing.T) {
	all := core.All()
	var keys []string
	for _, d := range all {
		keys = append(keys, d.Info.Key)
	}
	if !reflect.DeepEqual(keys, []string{"departments", "people"}) {
		t.Errorf("registered datasets = %v", keys)
	}
}

func TestColumnSets(t *testing.T) {
	tests := []struct {
		dataset string
		set     string
		want    int
	}{
		{dataset: "people", set: "", want: 19},
		{dataset: "people", set: "summary", want: 7},
		{dataset: "people", set: "h1", want: 13},
		{dataset: "people", set: "h2", want: 13},
		{dataset: "departments", set: "full", want: 15},
		{dataset: "departments", set: "summary", want: 3},
		{dataset: "departments", set: "h2", want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.dataset+"/"+tt.set, func(t *testing.T) {
			headers := buildHeaders(t, tt.dataset, tt.set)
			if len(headers) != tt.want {
				t.Errorf("len(headers) = %d, want %d", len(headers), tt.want)
			}
			seen := make(map[string]bool)
			for _, h := range headers {
				if seen[h.Value] {
					t.Errorf("duplicate column key %q", h.Value)
				}
				seen[h.Value] = true
			}
		})
	}
}

func TestMonthColumns(t *testing.T) {
	h2 := buildHeaders(t, "people", "h2")
	first := h2[7]
	if first.Text != "Jul Exp" || first.Value != "expenses[6].value" {
		t.Errorf("first h2 month column = %q / %q", first.Text, first.Value)
	}
}

// ----------------------------------------------------------------------------
// People Tests
// ----------------------------------------------------------------------------

func TestPeople_SalaryFilter(t *testing.T) {
	tbl := core.NewTable(buildHeaders(t, "people", "summary"), loadRows(t, "people"))

	tbl.SetFilter("salary", "gt0")
	above := tbl.Total()
	tbl.SetFilter("salary", "eq0")
	zero := tbl.Total()

	if above != 16 || zero != 4 {
		t.Errorf("gt0 = %d, eq0 = %d; want 16, 4", above, zero)
	}
}

func TestPeople_RoleSelect(t *testing.T) {
	headers := buildHeaders(t, "people", "summary")
	tbl := core.NewTable(headers, loadRows(t, "people"))

	role := &headers[2]
	tbl.SetFilter("role", core.ParseFilterInput(role, []string{"engineer,Manager"}))

	if tbl.Total() != 8 {
		t.Errorf("Total() = %d, want 8", tbl.Total())
	}
	for _, row := range tbl.Rows() {
		r := row.(map[string]any)["role"]
		if r != "Engineer" && r != "Manager" {
			t.Errorf("unexpected role %v", r)
		}
	}
}

func TestPeople_ShortExpenseHistory(t *testing.T) {
	headers := buildHeaders(t, "people", "full")
	rows := loadRows(t, "people")
	dana := rows[3]

	dec := &headers[len(headers)-1]
	if got := core.FormatCell(dana, dec); got != "" {
		t.Errorf("missing month formatted as %q, want empty", got)
	}

	tbl := core.NewTable(headers, []core.Row{dana})
	tbl.SetFilter(dec.Value, "eq0")
	if tbl.Total() != 1 {
		t.Error("a missing month should count as zero for the money filter")
	}
}

func TestPeople_CurrencyDisplay(t *testing.T) {
	headers := buildHeaders(t, "people", "summary")
	tbl := core.NewTable(headers, loadRows(t, "people"), core.WithPageSize(5))

	display := tbl.DisplayRows()
	if len(display) != 5 {
		t.Fatalf("len(DisplayRows()) = %d, want 5", len(display))
	}
	if display[0][1] != "Ann Lee" || display[0][4] != "$61,000.00" {
		t.Errorf("first row = %v", display[0])
	}
}

// ----------------------------------------------------------------------------
// Department Tests
// ----------------------------------------------------------------------------

func TestDepartments_TotalSalary(t *testing.T) {
	headers := buildHeaders(t, "departments", "summary")
	rows := loadRows(t, "departments")
	total := &headers[2]

	want := map[string]string{
		"A": "$245,250.00",
		"C": "$341,000.00",
		"F": "$0.00",
	}
	for _, row := range rows {
		id := row.(map[string]any)["id"].(string)
		if w, ok := want[id]; ok {
			if got := core.FormatCell(row, total); got != w {
				t.Errorf("department %s total = %q, want %q", id, got, w)
			}
		}
	}
}

func TestDepartments_SelectAndSort(t *testing.T) {
	headers := buildHeaders(t, "departments", "summary")
	tbl := core.NewTable(headers, loadRows(t, "departments"))

	tbl.SetFilter("id", []any{"A", "C"})
	var ids []string
	for _, row := range tbl.Rows() {
		ids = append(ids, row.(map[string]any)["id"].(string))
	}
	if !reflect.DeepEqual(ids, []string{"A", "C"}) {
		t.Errorf("ids = %v, want [A C]", ids)
	}

	tbl.ClearFilters()
	tbl.SetSort([]string{"totalSalary"}, []bool{true})
	first := tbl.Rows()[0].(map[string]any)["id"]
	last := tbl.Rows()[tbl.Total()-1].(map[string]any)["id"]
	if first != "C" || last != "F" {
		t.Errorf("sorted by total: first %v, last %v; want C, F", first, last)
	}
}

func TestDepartments_EmptySalaries(t *testing.T) {
	headers := buildHeaders(t, "departments", "full")
	tbl := core.NewTable(headers, loadRows(t, "departments"))

	tbl.SetFilter("salaries[0].amount", "eq0")
	found := false
	for _, row := range tbl.Rows() {
		if row.(map[string]any)["id"] == "F" {
			found = true
		}
	}
	if !found {
		t.Error("department with no salaries should match eq0")
	}
}
