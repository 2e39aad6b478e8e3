package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/MaxZim21/temporal-graph-explorer/internal/config"
	"github.com/MaxZim21/temporal-graph-explorer/internal/observability"
	"github.com/MaxZim21/temporal-graph-explorer/internal/query"
	"github.com/MaxZim21/temporal-graph-explorer/internal/schema"
	"github.com/MaxZim21/temporal-graph-explorer/internal/server"
	"github.com/MaxZim21/temporal-graph-explorer/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP query service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg := config.Get()
	logger := observability.GetLogger()

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(svc, cfg.Server, logger)
	return srv.ListenAndServe(ctx)
}

// buildService wires the query service with the configured source and
// schema cache. The returned cleanup releases the Postgres pool, if any.
func buildService(ctx context.Context) (*query.Service, func(), error) {
	cfg := config.Get()
	logger := observability.GetLogger()

	src := source.NewCSVSource(cfg.Data.Dir, logger)

	var (
		cache   schema.Cache
		cleanup = func() {}
	)
	if cfg.Postgres.Enabled {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		pgCache, err := schema.NewPGCache(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("initializing postgres schema cache: %w", err)
		}
		cache = pgCache
		cleanup = pool.Close
	} else {
		cache = schema.NewFileCache(cfg.Data.Dir, logger)
	}

	opts := query.Options{LegacyAvgDuration: cfg.Compat.LegacyAvgDuration}
	return query.NewService(src, cache, opts, logger), cleanup, nil
}
