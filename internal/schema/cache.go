package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
)

// MetaFilename is the per-database metadata file holding the cached
// schema, written next to the database's CSV files.
const MetaFilename = "metadata.json"

// Cache stores computed schemas per database name. Reads and writes are
// single-writer per database; the core never invalidates entries.
type Cache interface {
	// Read returns the cached schema and whether the cache hit.
	Read(ctx context.Context, databaseName string) (*schemas.GraphSchema, bool, error)
	Write(ctx context.Context, databaseName string, s *schemas.GraphSchema) error
}

// FileCache keeps schemas as metadata.json files inside each database's
// data directory.
type FileCache struct {
	dataDir string
	log     *zap.Logger
}

var _ Cache = (*FileCache)(nil)

// NewFileCache creates a file-backed schema cache rooted at dataDir.
func NewFileCache(dataDir string, logger *zap.Logger) *FileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCache{dataDir: dataDir, log: logger.Named("schema_cache")}
}

func (c *FileCache) path(databaseName string) string {
	return filepath.Join(c.dataDir, databaseName, MetaFilename)
}

// Read loads the metadata file for a database; a missing file is a
// cache miss, not an error.
func (c *FileCache) Read(_ context.Context, databaseName string) (*schemas.GraphSchema, bool, error) {
	raw, err := os.ReadFile(c.path(databaseName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading schema cache for %q: %w", databaseName, err)
	}

	var s schemas.GraphSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt metadata file is treated as a miss so the schema
		// gets recomputed and rewritten.
		c.log.Warn("Discarding unreadable schema cache entry",
			zap.String("database", databaseName), zap.Error(err))
		return nil, false, nil
	}
	return &s, true, nil
}

// Write stores the metadata file for a database.
func (c *FileCache) Write(_ context.Context, databaseName string, s *schemas.GraphSchema) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding schema for %q: %w", databaseName, err)
	}
	if err := os.WriteFile(c.path(databaseName), raw, 0o644); err != nil {
		return fmt.Errorf("writing schema cache for %q: %w", databaseName, err)
	}
	c.log.Debug("Schema cache entry written", zap.String("database", databaseName))
	return nil
}
