package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/logging"
	"github.com/JonMunkholm/datatable/internal/session"
	"github.com/JonMunkholm/datatable/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// datasetCards lists the registered datasets for the index page and API.
func datasetCards() []templates.DatasetCard {
	all := core.All()
	cards := make([]templates.DatasetCard, len(all))
	for i, d := range all {
		sets := make([]templates.Option, len(d.ColumnSets))
		for j, cs := range d.ColumnSets {
			sets[j] = templates.Option{Value: cs.Name, Label: cs.Label}
		}
		cards[i] = templates.DatasetCard{
			Key:         d.Info.Key,
			Label:       d.Info.Label,
			Description: d.Info.Description,
			ColumnSets:  sets,
		}
	}
	return cards
}

// handleIndex renders the dataset list.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(datasetCards()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render index", "error", err)
	}
}

// handleListDatasets returns the registered datasets as JSON.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, datasetCards())
}

// openTable opens an instance of the {dataset} URL parameter showing the
// ?columns= column set.
func (s *Server) openTable(r *http.Request) (*session.Instance, error) {
	inst, err := s.sessions.Open(r.Context(), chi.URLParam(r, "dataset"), r.URL.Query().Get("columns"))
	if err != nil {
		return nil, err
	}
	logging.WithTable(r.Context(), inst.ID, inst.Dataset.Info.Key).Info("table opened")
	s.metrics.IncOperation("open", inst.Dataset.Info.Key)
	return inst, nil
}

// handleOpenTable opens a table and redirects to its page, so reloading the
// page keeps the table state.
func (s *Server) handleOpenTable(w http.ResponseWriter, r *http.Request) {
	inst, err := s.openTable(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/t/"+url.PathEscape(inst.ID), http.StatusSeeOther)
}

// handleCreateTable opens a table for an API client.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	inst, err := s.openTable(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var data templates.TableData
	_ = inst.Do(func(t *core.Table, cs core.ColumnSet) error {
		data = s.buildTableData(inst, t, cs)
		return nil
	})
	w.Header().Set("Location", "/api/t/"+url.PathEscape(data.ID))
	writeJSON(w, http.StatusCreated, data)
}

// handleTableView renders a table as a full page.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r.Context())
	var data templates.TableData
	_ = inst.Do(func(t *core.Table, cs core.ColumnSet) error {
		data = s.buildTableData(inst, t, cs)
		return nil
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.TableView(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render table", "error", err)
	}
}

// handleGetTable returns the current table state.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "", func(*core.Table, core.ColumnSet) error { return nil })
}

// handleCloseTable discards a table.
func (s *Server) handleCloseTable(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r.Context())
	s.sessions.Delete(inst.ID)
	s.metrics.IncOperation("close", inst.Dataset.Info.Key)
	logging.WithTable(r.Context(), inst.ID, inst.Dataset.Info.Key).Info("table closed")
	w.WriteHeader(http.StatusNoContent)
}

// handleSetFilter sets the filter of one column from form fields key and
// value. Select columns accept repeated or comma-separated values.
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	key := r.FormValue("key")
	inputs := r.Form["value"]

	s.mutate(w, r, "filter", func(t *core.Table, _ core.ColumnSet) error {
		if err := core.CheckColumn(t.Headers(), key); err != nil {
			return err
		}
		h := headerByKey(t.Headers(), key)
		t.SetFilter(key, core.ParseFilterInput(h, inputs))
		return nil
	})
}

// handleClearFilters resets every column filter.
func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "clear_filters", func(t *core.Table, _ core.ColumnSet) error {
		t.ClearFilters()
		return nil
	})
}

// handleSetSort replaces the sort keys. An empty sort restores row order.
func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	keys, desc := parseSorts(r)

	s.mutate(w, r, "sort", func(t *core.Table, _ core.ColumnSet) error {
		for _, key := range keys {
			if err := core.CheckColumn(t.Headers(), key); err != nil {
				return err
			}
		}
		t.SetSort(keys, desc)
		return nil
	})
}

// handleSetPage changes the page size and/or page. A size change returns to
// page 1 unless a page is given too.
func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	size, hasSize, err := parseIntParam(r, "size")
	if err != nil {
		fail(w, r, err)
		return
	}
	page, hasPage, err := parseIntParam(r, "page")
	if err != nil {
		fail(w, r, err)
		return
	}
	if hasPage && page < 1 {
		fail(w, r, fmt.Errorf("%w: page=%d", core.ErrInvalidPage, page))
		return
	}

	s.mutate(w, r, "page", func(t *core.Table, _ core.ColumnSet) error {
		if hasSize {
			t.SetPageSize(size)
		}
		if hasPage {
			t.SetPage(page)
		}
		return nil
	})
}

// handleSetColumns switches the column set, keeping filters of columns
// present in both sets.
func (s *Server) handleSetColumns(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	inst := instanceFrom(r.Context())
	if err := inst.SetColumnSet(r.FormValue("set")); err != nil {
		fail(w, r, err)
		return
	}
	s.mutate(w, r, "columns", func(*core.Table, core.ColumnSet) error { return nil })
}

// mutate applies fn to the request's table under its lock and renders the
// result. A non-empty operation is counted and logged.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, operation string, fn func(*core.Table, core.ColumnSet) error) {
	inst := instanceFrom(r.Context())

	var data templates.TableData
	err := inst.Do(func(t *core.Table, cs core.ColumnSet) error {
		if err := fn(t, cs); err != nil {
			return err
		}
		data = s.buildTableData(inst, t, cs)
		return nil
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	if operation != "" {
		s.metrics.IncOperation(operation, inst.Dataset.Info.Key)
		logging.WithTable(r.Context(), inst.ID, inst.Dataset.Info.Key).Debug("table updated",
			"operation", operation,
			"total", data.Total,
			"page", data.Page,
		)
	}
	s.renderTable(w, r, data)
}

// renderTable writes table state as an HTMX fragment, JSON or a full page.
func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, data templates.TableData) {
	var err error
	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = templates.TablePartial(data).Render(r.Context(), w)
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, data)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = templates.TableView(data).Render(r.Context(), w)
	}
	if err != nil {
		logging.FromContext(r.Context()).Warn("render table", "error", err)
	}
}

// unsafeFilename matches characters not allowed in export file names.
var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// handleExport streams every filtered and sorted row as CSV, formatted the
// way the table displays them.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r.Context())

	var (
		header  []string
		records [][]string
	)
	_ = inst.Do(func(t *core.Table, cs core.ColumnSet) error {
		headers := t.Headers()
		header = make([]string, len(headers))
		for i := range headers {
			header[i] = headers[i].Text
		}
		rows := t.Rows()
		records = make([][]string, len(rows))
		for i, row := range rows {
			rec := make([]string, len(headers))
			for j := range headers {
				rec[j] = core.FormatCell(row, &headers[j])
			}
			records[i] = rec
		}
		return nil
	})

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.csv", unsafeFilename.ReplaceAllString(inst.Dataset.Info.Key, "_"), timestamp)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return
	}
	if err := cw.WriteAll(records); err != nil {
		// Headers are already sent; the client sees a truncated file.
		logging.WithTable(r.Context(), inst.ID, inst.Dataset.Info.Key).Warn("export failed", "error", err)
		return
	}

	s.metrics.IncOperation("export", inst.Dataset.Info.Key)
	logging.WithTable(r.Context(), inst.ID, inst.Dataset.Info.Key).Info("table exported", "rows", len(records))
}

// headerByKey returns the header with Value key, or nil.
func headerByKey(headers []core.ColumnHeader, key string) *core.ColumnHeader {
	for i := range headers {
		if headers[i].Value == key {
			return &headers[i]
		}
	}
	return nil
}
