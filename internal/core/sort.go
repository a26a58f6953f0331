package core

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortSpec is one sort key and its direction.
type SortSpec struct {
	Key  string
	Desc bool
}

// SortSpecs pairs sort keys with descending flags. Missing flags default to
// ascending.
func SortSpecs(keys []string, desc []bool) []SortSpec {
	specs := make([]SortSpec, 0, len(keys))
	for i, k := range keys {
		specs = append(specs, SortSpec{Key: k, Desc: i < len(desc) && desc[i]})
	}
	return specs
}

// Sorter orders rows by column keys. Text is compared with a collator for
// the sorter's language. A Sorter is not safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter returns a sorter collating text for tag.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag)}
}

// NewDefaultSorter returns a sorter using US English collation.
func NewDefaultSorter() *Sorter {
	return NewSorter(language.AmericanEnglish)
}

// Sort returns rows ordered by keys. With no keys the input is returned
// unchanged; otherwise a sorted copy is returned and the input is untouched.
//
// Each key names a column Value. The matching header's resolver is used, so
// GetValue accessors take part in sorting; keys with no header are looked up
// as paths. The sort is stable: rows that tie on every key keep their input
// order.
func (s *Sorter) Sort(rows []Row, headers []ColumnHeader, keys []string, desc []bool) []Row {
	if len(keys) == 0 {
		return rows
	}

	specs := SortSpecs(keys, desc)
	cols := make([]*ColumnHeader, len(specs))
	for i, spec := range specs {
		cols[i] = headerFor(headers, spec.Key)
	}

	out := make([]Row, len(rows))
	copy(out, rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		for i, spec := range specs {
			c := s.compareCells(a, b, cols[i])
			if spec.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// compareCells compares one column of two rows. Absent values sort after
// present ones.
func (s *Sorter) compareCells(a, b Row, h *ColumnHeader) int {
	av, aok := Resolve(a, h)
	bv, bok := Resolve(b, h)

	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}

	if an, ok := ToNumber(av); ok {
		if bn, ok := ToNumber(bv); ok {
			return cmp.Compare(an, bn)
		}
	}
	return s.collator.CompareString(Stringify(av), Stringify(bv))
}

// headerFor returns the header whose Value is key, or a bare path header.
func headerFor(headers []ColumnHeader, key string) *ColumnHeader {
	for i := range headers {
		if headers[i].Value == key {
			return &headers[i]
		}
	}
	return &ColumnHeader{Value: key}
}
