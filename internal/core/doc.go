// Package core provides the table engine behind every rendered data table.
//
// The engine is a set of pure, synchronous functions composed by [Table].
// It holds no global mutable state and never returns errors for bad row
// data: missing or mis-shaped values degrade to defined fallbacks so one bad
// cell can never block rendering of a row.
//
// # Pipeline
//
// A render pass flows through the engine in this order:
//
//  1. [DeriveActiveFilters] reduces the column headers and the current
//     [FilterState] to the filters that actually constrain rows.
//  2. [FilterRows] keeps rows for which [RowMatches] holds (AND of all
//     active filters).
//  3. [Sorter.Sort] orders the survivors by zero or more column keys.
//  4. [Table.PageRows] slices the current page.
//  5. [FormatCell] turns each visible cell into display text.
//
// Active filters are derived once per recompute, not per row.
//
// # Column Headers
//
// A [ColumnHeader] is plain data plus two optional functions. GetValue
// overrides value extraction (for aggregates such as a sum over a nested
// slice); Formatter overrides display. Without GetValue the Value field is
// treated as a path:
//
//	core.ColumnHeader{Text: "Mar Exp", Value: "expenses[2].value", Filter: core.MoneyFilter(), Formatter: core.CurrencyFormatter}
//
// # Filters
//
// Three filter kinds exist:
//
//   - text: case-insensitive substring match (the default)
//   - money: "eq0" (value is zero or absent) or "gt0" (value is positive)
//   - select: membership in a set of selected item values
//
// State values that do not describe an active filter (blank text, unknown
// money conditions, non-slice select state) are treated as inactive.
//
// # Datasets
//
// Column sets and sample rows are registered at init time with [Register],
// the same way the datasets package registers people and departments.
package core
