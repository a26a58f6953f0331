package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/datatable/internal/core"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_DIR", "")
	t.Setenv("DATABASE_URL", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tsvLines(out string) []string {
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

// ----------------------------------------------------------------------------
// List Tests
// ----------------------------------------------------------------------------

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"people", "departments", "summary", "Column sets"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

// ----------------------------------------------------------------------------
// Show Tests
// ----------------------------------------------------------------------------

func TestShow_Table(t *testing.T) {
	out, err := execute(t, "show", "people", "--columns", "summary", "-n", "5")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"Ann Lee", "$61,000.00", "Net Pay", "page 1/4, 20 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow_TSV(t *testing.T) {
	tests := []struct {
		name string
		args []string
		rows int
	}{
		{"all rows", []string{"--page-size", "0"}, 20},
		{"money filter", []string{"--page-size", "0", "--filter", "salary=gt0"}, 16},
		{"zero money", []string{"--page-size", "0", "--filter", "salary=eq0"}, 4},
		{"select filter", []string{"--page-size", "0", "--filter", "role=engineer,Manager"}, 8},
		{"unknown money condition", []string{"--page-size", "0", "--filter", "salary=lots"}, 20},
		{"first page", nil, 10},
		{"second page", []string{"--page", "2", "-n", "15"}, 5},
		{"past the end", []string{"--page", "9"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"show", "people", "-c", "summary", "--format", "tsv"}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("show error = %v", err)
			}
			lines := tsvLines(out)
			if lines[0] != "ID\tName\tRole\tLocation\tSalary\tDeductions\tNet Pay" {
				t.Errorf("header = %q", lines[0])
			}
			if got := len(lines) - 1; got != tt.rows {
				t.Errorf("rows = %d, want %d", got, tt.rows)
			}
		})
	}
}

func TestShow_Sort(t *testing.T) {
	out, err := execute(t, "show", "departments", "-c", "summary", "--format", "tsv", "-n", "0", "--sort", "totalSalary:desc")
	if err != nil {
		t.Fatal(err)
	}
	lines := tsvLines(out)
	if !strings.HasPrefix(lines[1], "C\t") || !strings.HasPrefix(lines[len(lines)-1], "F\t") {
		t.Errorf("first %q, last %q; want C first and F last", lines[1], lines[len(lines)-1])
	}
}

func TestShow_DataDir(t *testing.T) {
	dir := t.TempDir()
	rows := `[{"id":"X1","name":"Disk Row","role":"Analyst","salary":5}]`
	if err := os.WriteFile(filepath.Join(dir, "people.json"), []byte(rows), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "show", "people", "-c", "summary", "--format", "tsv", "--data-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	lines := tsvLines(out)
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "X1\tDisk Row\tAnalyst\t\t$5.00") {
		t.Errorf("output = %q", out)
	}
}

func TestShow_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		sentinel error
		code     string
	}{
		{"unknown dataset", []string{"show", "nope"}, core.ErrDatasetNotFound, "TBL001"},
		{"unknown column set", []string{"show", "people", "-c", "q5"}, core.ErrColumnSetNotFound, "TBL004"},
		{"unknown filter column", []string{"show", "people", "-f", "slary=gt0"}, core.ErrUnknownColumn, "FLT001"},
		{"unknown sort column", []string{"show", "people", "-s", "nmae"}, core.ErrUnknownColumn, "FLT001"},
		{"invalid page", []string{"show", "people", "--page", "0"}, core.ErrInvalidPage, "FLT002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			if got := core.MapError(err).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestShow_Suggestion(t *testing.T) {
	_, err := execute(t, "show", "people", "-f", "slary=gt0")
	if msg := core.FormatUserError(err); !strings.Contains(msg, `Did you mean "salary"?`) {
		t.Errorf("FormatUserError() = %q", msg)
	}
}

func TestParseSortFlags(t *testing.T) {
	headers := []core.ColumnHeader{{Text: "Name", Value: "name"}, {Text: "Pay", Value: "pay"}}

	keys, desc, err := parseSortFlags(headers, []string{"pay:desc", " name ", ""})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(keys, ",") != "pay,name" || len(desc) != 2 || !desc[0] || desc[1] {
		t.Errorf("keys = %v, desc = %v", keys, desc)
	}

	if _, _, err := parseSortFlags(headers, []string{"pay:sideways"}); err == nil {
		t.Error("expected an error for an invalid direction")
	}
}
