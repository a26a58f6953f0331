package core

import "maps"

// DefaultPageSize is the page size of a table created without WithPageSize.
const DefaultPageSize = 10

// Table composes filtering, sorting and pagination over one row collection.
//
// A Table owns its filter state and page counter. Every mutation recomputes
// the derived view before returning, so reads always reflect the latest
// inputs. A Table is not safe for concurrent use.
type Table struct {
	headers  []ColumnHeader
	rows     []Row
	filters  FilterState
	sortKeys []string
	sortDesc []bool
	page     int
	pageSize int
	sorter   *Sorter

	active []ActiveFilter
	view   []Row
}

// Option configures a Table.
type Option func(*Table)

// WithPageSize sets the initial page size. n <= 0 shows all rows on one page.
func WithPageSize(n int) Option {
	return func(t *Table) { t.pageSize = n }
}

// WithSorter replaces the default US English sorter.
func WithSorter(s *Sorter) Option {
	return func(t *Table) { t.sorter = s }
}

// NewTable creates a table over rows. Filter state is seeded with an
// inactive entry per header and the view starts on page 1.
func NewTable(headers []ColumnHeader, rows []Row, opts ...Option) *Table {
	t := &Table{
		headers:  headers,
		rows:     rows,
		filters:  make(FilterState, len(headers)),
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sorter == nil {
		t.sorter = NewDefaultSorter()
	}
	SeedFilters(t.filters, t.headers)
	t.recompute()
	return t
}

// SetFilter sets the filter input of one column and returns to page 1.
// A nil value clears the filter.
func (t *Table) SetFilter(key string, value any) {
	if value == nil {
		value = ""
	}
	t.filters[key] = value
	t.page = 1
	t.recompute()
}

// ClearFilters resets every column to its inactive state and returns to
// page 1.
func (t *Table) ClearFilters() {
	t.filters = make(FilterState, len(t.headers))
	SeedFilters(t.filters, t.headers)
	t.page = 1
	t.recompute()
}

// SetHeaders replaces the column set. Filter entries for columns that are
// still present are kept; new columns are seeded inactive.
func (t *Table) SetHeaders(headers []ColumnHeader) {
	t.headers = headers
	SeedFilters(t.filters, t.headers)
	t.recompute()
}

// SetRows replaces the row collection.
func (t *Table) SetRows(rows []Row) {
	t.rows = rows
	t.recompute()
}

// SetSort sets the sort keys and their descending flags. Empty keys restore
// the original row order.
func (t *Table) SetSort(keys []string, desc []bool) {
	t.sortKeys = append([]string(nil), keys...)
	t.sortDesc = append([]bool(nil), desc...)
	t.recompute()
}

// SetPage moves to page p (1-based). Values below 1 select page 1.
func (t *Table) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	t.page = p
}

// SetPageSize changes the page size and returns to page 1.
// n <= 0 shows all rows on one page.
func (t *Table) SetPageSize(n int) {
	t.pageSize = n
	t.page = 1
}

// recompute derives active filters once and applies them to every row.
func (t *Table) recompute() {
	t.active = DeriveActiveFilters(t.headers, t.filters)
	t.view = t.sorter.Sort(FilterRows(t.rows, t.active), t.headers, t.sortKeys, t.sortDesc)
}

// Headers returns the current column set.
func (t *Table) Headers() []ColumnHeader { return t.headers }

// Filters returns a copy of the filter state.
func (t *Table) Filters() FilterState { return maps.Clone(t.filters) }

// ActiveFilters returns the filters currently constraining rows.
func (t *Table) ActiveFilters() []ActiveFilter { return t.active }

// Sort returns the current sort specification.
func (t *Table) Sort() []SortSpec { return SortSpecs(t.sortKeys, t.sortDesc) }

// Rows returns the full filtered and sorted view.
func (t *Table) Rows() []Row { return t.view }

// Total returns the number of rows matching the filters.
func (t *Table) Total() int { return len(t.view) }

// Page returns the current page (1-based).
func (t *Table) Page() int { return t.page }

// PageSize returns the page size; 0 or less means all rows.
func (t *Table) PageSize() int { return t.pageSize }

// PageCount returns the number of pages, at least 1.
func (t *Table) PageCount() int {
	if t.pageSize <= 0 || len(t.view) == 0 {
		return 1
	}
	return (len(t.view) + t.pageSize - 1) / t.pageSize
}

// PageRows returns the rows of the current page. A page beyond the end of
// the view is empty.
func (t *Table) PageRows() []Row {
	if t.pageSize <= 0 {
		return t.view
	}
	start := (t.page - 1) * t.pageSize
	if start >= len(t.view) {
		return []Row{}
	}
	end := min(start+t.pageSize, len(t.view))
	return t.view[start:end]
}

// FormatCell formats one cell of row.
func (t *Table) FormatCell(row Row, h *ColumnHeader) string {
	return FormatCell(row, h)
}

// DisplayRows formats the current page: one string per header for each
// visible row.
func (t *Table) DisplayRows() [][]string {
	rows := t.PageRows()
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(t.headers))
		for j := range t.headers {
			cells[j] = FormatCell(row, &t.headers[j])
		}
		out[i] = cells
	}
	return out
}
