package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
)

// DBPool abstracts the pgxpool.Pool so the cache can be mocked in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGCache stores schemas in a Postgres table, for deployments where the
// data directory is not shared between replicas.
type PGCache struct {
	pool DBPool
	log  *zap.Logger
}

var _ Cache = (*PGCache)(nil)

// NewPGCache creates a Postgres-backed schema cache and verifies the
// connection.
func NewPGCache(ctx context.Context, pool DBPool, logger *zap.Logger) (*PGCache, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PGCache{pool: pool, log: logger.Named("pg_schema_cache")}, nil
}

// Read looks up the cached schema row; no row is a cache miss.
func (c *PGCache) Read(ctx context.Context, databaseName string) (*schemas.GraphSchema, bool, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT schema FROM graph_schemas WHERE database_name = $1;`, databaseName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query schema cache: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("error during row iteration: %w", err)
		}
		return nil, false, nil
	}

	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return nil, false, fmt.Errorf("failed to scan schema row: %w", err)
	}

	var s schemas.GraphSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("Discarding unreadable schema cache row",
			zap.String("database", databaseName), zap.Error(err))
		return nil, false, nil
	}
	return &s, true, nil
}

// Write upserts the schema row for a database.
func (c *PGCache) Write(ctx context.Context, databaseName string, s *schemas.GraphSchema) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding schema for %q: %w", databaseName, err)
	}

	sql := `
        INSERT INTO graph_schemas (database_name, schema, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (database_name) DO UPDATE SET
            schema = EXCLUDED.schema,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := c.pool.Exec(ctx, sql, databaseName, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert schema for %q: %w", databaseName, err)
	}
	c.log.Debug("Schema cache row written", zap.String("database", databaseName))
	return nil
}
