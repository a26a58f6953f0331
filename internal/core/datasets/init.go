// Package datasets registers the demo datasets with the core registry.
// Import this package for its side effects.
package datasets

import (
	"embed"
	"fmt"

	"github.com/JonMunkholm/datatable/internal/core"
)

//go:embed data/*.json
var sampleFiles embed.FS

// Months are the month labels used by the per-month column sets.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// sample reads an embedded sample file. A missing file is a build error, so
// it panics.
func sample(name string) []byte {
	b, err := sampleFiles.ReadFile("data/" + name)
	if err != nil {
		panic(fmt.Sprintf("datasets: missing sample %s: %v", name, err))
	}
	return b
}

// text builds a plain text column.
func text(label, value, width string) core.ColumnHeader {
	return core.ColumnHeader{
		Text:      label,
		Value:     value,
		Width:     width,
		Filter:    core.TextFilter("Filter"),
		Formatter: core.PlainFormatter,
	}
}

// money builds a currency column with a text filter.
func money(label, value, width string) core.ColumnHeader {
	return core.ColumnHeader{
		Text:      label,
		Value:     value,
		Width:     width,
		Filter:    core.TextFilter("Filter"),
		Formatter: core.CurrencyFormatter,
	}
}

// monthRange returns the month indexes for a column set name.
func monthRange(set string) []int {
	var lo, hi int
	switch set {
	case "h1":
		lo, hi = 0, 6
	case "h2":
		lo, hi = 6, 12
	case "summary":
		return nil
	default:
		lo, hi = 0, 12
	}
	idx := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		idx = append(idx, i)
	}
	return idx
}

// columnSets builds the standard full/summary/h1/h2 layouts from a builder.
func columnSets(build func(months []int) []core.ColumnHeader) []core.ColumnSet {
	sets := []struct{ name, label string }{
		{"full", "Full year"},
		{"summary", "Summary"},
		{"h1", "First half"},
		{"h2", "Second half"},
	}
	out := make([]core.ColumnSet, len(sets))
	for i, s := range sets {
		months := monthRange(s.name)
		out[i] = core.ColumnSet{
			Name:  s.name,
			Label: s.label,
			Build: func() []core.ColumnHeader { return build(months) },
		}
	}
	return out
}
