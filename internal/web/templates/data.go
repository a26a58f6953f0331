// Package templates renders the HTML of the table UI as templ components.
//
// Components are plain data in, markup out: handlers build a TableData from
// a core.Table and the components never touch the engine. The same view
// model is served as JSON to API clients.
package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// Option is one entry of a select control.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// DatasetCard describes a dataset on the index page.
type DatasetCard struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	ColumnSets  []Option `json:"column_sets"`
}

// Column is the rendered state of one header.
type Column struct {
	Key         string   `json:"key"`
	Text        string   `json:"text"`
	Width       string   `json:"width,omitempty"`
	Filter      string   `json:"filter"`
	Placeholder string   `json:"placeholder,omitempty"`
	Value       string   `json:"value,omitempty"`   // text filter input
	Options     []Option `json:"options,omitempty"` // money and select filters
	Multiple    bool     `json:"multiple,omitempty"`
	SortDir     string   `json:"sort,omitempty"` // "asc", "desc" or ""
}

// TableData is the view model of one table instance.
type TableData struct {
	ID         string     `json:"id"`
	Dataset    string     `json:"dataset"`
	Label      string     `json:"label"`
	ColumnSet  string     `json:"column_set"`
	ColumnSets []Option   `json:"column_sets"`
	Columns    []Column   `json:"columns"`
	Rows       [][]string `json:"rows"`
	Page       int        `json:"page"`
	PageCount  int        `json:"page_count"`
	PageSize   int        `json:"page_size"`
	PageSizes  []Option   `json:"page_sizes"`
	Total      int        `json:"total"`
}

// apiPath returns the API path of an instance action.
func (d TableData) apiPath(action string) string {
	p := "/api/t/" + d.ID
	if action != "" {
		p += "/" + action
	}
	return p
}

// domID is the element id of the table container.
func (d TableData) domID() string {
	return "table-" + d.ID
}

// nextSortDir is the direction a click on the column title requests.
func (c Column) nextSortDir() string {
	if c.SortDir == "asc" {
		return "desc"
	}
	return "asc"
}

// sortMarker is shown after the title of a sorted column.
func (c Column) sortMarker() string {
	switch c.SortDir {
	case "asc":
		return " ▲"
	case "desc":
		return " ▼"
	}
	return ""
}

// widthAttrs sets a minimum column width when the header has one.
func (c Column) widthAttrs() templ.Attributes {
	if c.Width == "" {
		return templ.Attributes{}
	}
	return templ.Attributes{"style": "min-width:" + c.Width}
}

// emptyColspan spans the "No matching rows" cell across the table.
func (d TableData) emptyColspan() string {
	return strconv.Itoa(max(len(d.Columns), 1))
}
