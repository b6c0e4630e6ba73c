// Package backend opens the storage.Store named by the storage config.
package backend

import (
	"context"
	"fmt"

	"github.com/zjrosen/kcal/internal/config"
	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/storage"
	"github.com/zjrosen/kcal/internal/storage/cached"
	"github.com/zjrosen/kcal/internal/storage/memory"
	"github.com/zjrosen/kcal/internal/storage/postgres"
	"github.com/zjrosen/kcal/internal/storage/s3"
	"github.com/zjrosen/kcal/internal/storage/sqlite"
)

// Open validates cfg and returns the configured store, wrapped in a
// read-through cache when cfg.CacheTTL is positive. Callers own the store
// and must Close it.
func Open(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	if err := config.ValidateStorage(cfg); err != nil {
		return nil, err
	}

	store, err := open(ctx, cfg)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open store", err, "backend", cfg.Backend)
		return nil, err
	}

	if cfg.CacheTTL > 0 {
		log.Debug(log.CatStore, "Caching store reads", "ttl", cfg.CacheTTL)
		store = cached.New(store, cfg.CacheTTL)
	}
	return store, nil
}

func open(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.NewDB(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db.KVRepository(), nil
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendPostgres:
		store, err := postgres.NewStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return store, nil
	case config.BackendS3:
		store, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("opening s3 store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
