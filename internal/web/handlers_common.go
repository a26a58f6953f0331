// Package web provides HTTP handlers for the table UI.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/session"
	"github.com/JonMunkholm/datatable/internal/web/templates"
)

// maxFormSize bounds control form bodies.
const maxFormSize = 64 << 10

// parseForm parses a size-limited control form.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	return r.ParseForm()
}

// parseIntParam parses an integer form or query value. ok is false when the
// value is missing; a present value that is not an integer is an
// ErrInvalidPage error.
func parseIntParam(r *http.Request, name string) (n int, ok bool, err error) {
	val := strings.TrimSpace(r.FormValue(name))
	if val == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q", core.ErrInvalidPage, name, val)
	}
	return n, true, nil
}

// parseSorts parses comma-separated sort keys and directions
// (sort=name,salary&dir=asc,desc). Keys without a direction sort ascending.
func parseSorts(r *http.Request) (keys []string, desc []bool) {
	sortStr := r.FormValue("sort")
	if strings.TrimSpace(sortStr) == "" {
		return nil, nil
	}
	dirs := strings.Split(r.FormValue("dir"), ",")

	for i, key := range strings.Split(sortStr, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		keys = append(keys, key)
		desc = append(desc, i < len(dirs) && strings.EqualFold(strings.TrimSpace(dirs[i]), "desc"))
	}
	return keys, desc
}

// pageSizeOptions builds the page size select. Sizes of 0 or less mean all
// rows and match a table showing everything.
func pageSizeOptions(sizes []int, current int) []templates.Option {
	opts := make([]templates.Option, 0, len(sizes))
	for _, n := range sizes {
		label := strconv.Itoa(n)
		if n <= 0 {
			label = "All"
		}
		opts = append(opts, templates.Option{
			Value:    strconv.Itoa(n),
			Label:    label,
			Selected: n == current || (n <= 0 && current <= 0),
		})
	}
	return opts
}

// buildTableData converts an instance's table into the view model. Callers
// hold the instance lock (see session.Instance.Do).
func (s *Server) buildTableData(inst *session.Instance, t *core.Table, cs core.ColumnSet) templates.TableData {
	sets := make([]templates.Option, len(inst.Dataset.ColumnSets))
	for i, set := range inst.Dataset.ColumnSets {
		sets[i] = templates.Option{Value: set.Name, Label: set.Label, Selected: set.Name == cs.Name}
	}

	sortDirs := make(map[string]string)
	for _, spec := range t.Sort() {
		if _, seen := sortDirs[spec.Key]; seen {
			continue
		}
		sortDirs[spec.Key] = "asc"
		if spec.Desc {
			sortDirs[spec.Key] = "desc"
		}
	}

	state := t.Filters()
	headers := t.Headers()
	cols := make([]templates.Column, len(headers))
	for i := range headers {
		cols[i] = buildColumn(&headers[i], state[headers[i].Value], sortDirs[headers[i].Value])
	}

	return templates.TableData{
		ID:         inst.ID,
		Dataset:    inst.Dataset.Info.Key,
		Label:      inst.Dataset.Info.Label,
		ColumnSet:  cs.Name,
		ColumnSets: sets,
		Columns:    cols,
		Rows:       t.DisplayRows(),
		Page:       t.Page(),
		PageCount:  t.PageCount(),
		PageSize:   t.PageSize(),
		PageSizes:  pageSizeOptions(s.cfg.Table.PageSizeOptions, t.PageSize()),
		Total:      t.Total(),
	}
}

// buildColumn renders one header with its current filter input.
func buildColumn(h *core.ColumnHeader, state any, sortDir string) templates.Column {
	col := templates.Column{
		Key:     h.Value,
		Text:    h.Text,
		Width:   h.Width,
		Filter:  string(h.FilterKind()),
		SortDir: sortDir,
	}

	switch h.FilterKind() {
	case core.FilterMoney:
		cond := string(core.NormalizeMoneyCondition(state))
		for _, item := range h.Filter.Items {
			key := core.ItemKey(item.Value)
			col.Options = append(col.Options, templates.Option{Value: key, Label: item.Text, Selected: key == cond})
		}

	case core.FilterSelect:
		selected := make(map[string]bool)
		for _, key := range selectedKeys(state) {
			selected[key] = true
		}
		col.Multiple = h.Filter.Multiple
		if !col.Multiple {
			col.Options = append(col.Options, templates.Option{Value: "", Label: "All"})
		}
		for _, item := range h.Filter.Items {
			key := core.ItemKey(item.Value)
			col.Options = append(col.Options, templates.Option{Value: key, Label: item.Text, Selected: selected[key]})
		}

	default:
		col.Value = core.Stringify(state)
		if h.Filter != nil {
			col.Placeholder = h.Filter.Placeholder
		}
	}
	return col
}

// selectedKeys returns the transport keys of a select filter state.
func selectedKeys(state any) []string {
	values, ok := state.([]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(values))
	for _, v := range values {
		if v != nil {
			keys = append(keys, core.ItemKey(v))
		}
	}
	return keys
}
