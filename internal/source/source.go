// Package source loads the rows of a dataset from where they live: the
// binary itself, a data directory or a Postgres database.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/datatable/internal/core"
)

// ErrNotFound is returned when a source has no rows for a dataset.
var ErrNotFound = errors.New("rows not found")

// Source provides the rows of a dataset.
type Source interface {
	Rows(ctx context.Context, dataset core.Dataset) ([]any, error)
}

// Embedded serves the sample rows compiled into each dataset.
type Embedded struct{}

func (Embedded) Rows(_ context.Context, d core.Dataset) ([]any, error) {
	if len(d.Sample) == 0 {
		return nil, fmt.Errorf("embedded: %s: %w", d.Info.Key, ErrNotFound)
	}
	rows, err := decodeRows(d.Sample)
	if err != nil {
		return nil, fmt.Errorf("embedded: %s: %w", d.Info.Key, err)
	}
	return rows, nil
}

// Chain tries each source in order. A source reporting ErrNotFound passes
// the dataset on to the next one; any other error stops the chain.
type Chain []Source

func (c Chain) Rows(ctx context.Context, d core.Dataset) ([]any, error) {
	for _, src := range c {
		rows, err := src.Rows(ctx, d)
		if err == nil {
			slog.Debug("rows loaded", "dataset", d.Info.Key, "source", fmt.Sprintf("%T", src), "rows", len(rows))
			return rows, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", d.Info.Key, ErrNotFound)
}

// decodeRows parses a JSON array of row objects.
func decodeRows(data []byte) ([]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, errors.New("decode rows: expected a JSON array")
	}
	var rows []any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
