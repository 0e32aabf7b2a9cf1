// Package storage holds the key-value blob backends the snapshot and the
// carts are persisted in.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lemonshop_server/database"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var (
	ErrNotFound      = errors.New("blob not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// BlobStore is a flat key to blob mapping. Get returns ErrNotFound for keys
// that were never written. Set replaces the whole value.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg.Storage.Driver, wrapped in the
// configured quota.
func Open(ctx context.Context, cfg *structs.Config, logger *gecho.Logger) (BlobStore, error) {
	var (
		store BlobStore
		err   error
	)

	switch driver := strings.ToLower(cfg.Storage.Driver); driver {
	case "", DriverMemory:
		store = NewMemoryStore()
	case DriverRedis:
		store = NewRedisStore(NewRedisClient(cfg.Cache), logger, cfg.Cache.OperationRetry)
	case DriverPostgres:
		db, connErr := database.Connect(ctx, cfg.Database, logger)
		if connErr != nil {
			return nil, connErr
		}
		store, err = NewPostgresStore(ctx, db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("storage %s unreachable: %w", cfg.Storage.Driver, err)
	}

	logger.Info("Storage backend ready",
		gecho.Field("driver", cfg.Storage.Driver),
		gecho.Field("max_blob_bytes", cfg.Storage.MaxBlobBytes),
	)

	return WithQuota(store, cfg.Storage.MaxBlobBytes), nil
}

// quotaStore refuses values larger than limit bytes
type quotaStore struct {
	BlobStore
	limit int
}

// WithQuota caps the size of a single blob. A limit of zero or less disables
// the cap.
func WithQuota(store BlobStore, limit int) BlobStore {
	if limit <= 0 {
		return store
	}
	return &quotaStore{BlobStore: store, limit: limit}
}

func (q *quotaStore) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > q.limit {
		return fmt.Errorf("%w: %d bytes for %q, limit %d", ErrQuotaExceeded, len(value), key, q.limit)
	}
	return q.BlobStore.Set(ctx, key, value)
}

// Stats reports backend specific pool statistics, when there are any
func Stats(store BlobStore) map[string]any {
	if q, ok := store.(*quotaStore); ok {
		store = q.BlobStore
	}
	if s, ok := store.(interface{ Stats() map[string]any }); ok {
		return s.Stats()
	}
	return map[string]any{}
}
