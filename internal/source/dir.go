package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/JonMunkholm/datatable/internal/core"
)

// Dir reads "<key>.json" files from a file system, usually
// os.DirFS(DATA_DIR).
type Dir struct {
	FS fs.FS
}

func (d Dir) Rows(ctx context.Context, ds core.Dataset) ([]any, error) {
	if d.FS == nil {
		return nil, fmt.Errorf("dir: %s: %w", ds.Info.Key, ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := ds.Info.Key + ".json"
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("dir: %s: %w", ds.Info.Key, ErrNotFound)
	}

	data, err := fs.ReadFile(d.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dir: %s: %w", ds.Info.Key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("dir: read %s: %w", name, err)
	}

	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("dir: %s: %w", name, err)
	}
	return rows, nil
}
