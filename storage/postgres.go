package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lemonshop_server/database"
	"lemonshop_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// Blob is one row of the blob table
type Blob struct {
	bun.BaseModel `bun:"table:lemonshop_blobs,alias:b"`

	Key       string    `bun:"key,pk"`
	Value     []byte    `bun:"value,type:bytea,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// PostgresStore keeps blobs in a single key/value table
type PostgresStore struct {
	logger *gecho.Logger
	db     *database.DB
}

// NewPostgresStore creates the blob table when it is missing
func NewPostgresStore(ctx context.Context, db *database.DB, logger *gecho.Logger) (*PostgresStore, error) {
	err := database.WithRetry(ctx, func() error {
		_, err := db.NewCreateTable().Model((*Blob)(nil)).IfNotExists().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob table: %w", err)
	}

	return &PostgresStore{logger: logger, db: db}, nil
}

func (ps *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	blob := new(Blob)
	err := database.WithRetry(ctx, func() error {
		return ps.db.NewSelect().Model(blob).Where("key = ?", key).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return blob.Value, nil
}

func (ps *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	blob := &Blob{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := database.WithRetry(ctx, func() error {
		_, err := ps.db.NewInsert().
			Model(blob).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	return lib.MapPgError(err)
}

func (ps *PostgresStore) Delete(ctx context.Context, key string) error {
	err := database.WithRetry(ctx, func() error {
		_, err := ps.db.NewDelete().Model((*Blob)(nil)).Where("key = ?", key).Exec(ctx)
		return err
	})
	return lib.MapPgError(err)
}

func (ps *PostgresStore) Ping(ctx context.Context) error {
	return ps.db.Health(ctx)
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// Stats returns sql pool statistics
func (ps *PostgresStore) Stats() map[string]any {
	stats := ps.db.GetStats()

	return map[string]any{
		"open_conns":    stats.OpenConnections,
		"in_use":        stats.InUse,
		"idle":          stats.Idle,
		"wait_count":    stats.WaitCount,
		"wait_duration": stats.WaitDuration.String(),
	}
}
