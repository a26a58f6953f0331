package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// undefinedTable is the Postgres SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// OpenPool parses cfg, connects and pings the database.
func OpenPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Postgres reads a dataset from the table named after its key. Each row is
// converted to a JSON object by the database, so any column layout works.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a source backed by pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// rowsQuery builds the query for a dataset key. The key is quoted as an
// identifier.
func rowsQuery(key string) string {
	return fmt.Sprintf("SELECT row_to_json(t)::text FROM %s t", pgx.Identifier{key}.Sanitize())
}

func (p *Postgres) Rows(ctx context.Context, d core.Dataset) ([]any, error) {
	rows, err := p.pool.Query(ctx, rowsQuery(d.Info.Key))
	if err != nil {
		return nil, p.wrap(d.Info.Key, err)
	}

	texts, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, p.wrap(d.Info.Key, err)
	}

	out := make([]any, 0, len(texts))
	for i, text := range texts {
		var row any
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("postgres: %s: decode rows: row %d: %w", d.Info.Key, i, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// wrap maps a missing table to ErrNotFound so a Chain can fall through.
func (p *Postgres) wrap(key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("postgres: %s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("postgres: %s: %w", key, err)
}
