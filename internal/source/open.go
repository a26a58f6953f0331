package source

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/JonMunkholm/datatable/internal/config"
)

// Open builds the source chain from configuration: Postgres when a database
// URL is set, then the data directory when one is set, then the embedded
// samples. The returned close function releases the database pool.
func Open(ctx context.Context, cfg config.SourceConfig) (Chain, func(), error) {
	var chain Chain
	closeFn := func() {}

	if cfg.DatabaseURL != "" {
		pool, err := OpenPool(ctx, PoolConfig{
			URL:             cfg.DatabaseURL,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn = pool.Close
		chain = append(chain, NewPostgres(pool))
		slog.Info("connected to database", "name", databaseName(cfg.DatabaseURL))
	}

	if cfg.DataDir != "" {
		chain = append(chain, Dir{FS: os.DirFS(cfg.DataDir)})
		slog.Info("reading rows from data directory", "dir", cfg.DataDir)
	}

	return append(chain, Embedded{}), closeFn, nil
}

// databaseName returns the database path of a URL for logging, never the
// credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
