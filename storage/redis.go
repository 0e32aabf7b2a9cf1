package storage

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisRetries = 3
	baseBackoff         = 100 * time.Millisecond
	maxBackoff          = 2 * time.Second
)

// RedisStore persists blobs as plain Redis string values without expiry
type RedisStore struct {
	logger  *gecho.Logger
	client  *redis.Client
	retries int
}

func NewRedisStore(client *redis.Client, logger *gecho.Logger, retries int) *RedisStore {
	if retries <= 0 {
		retries = defaultRedisRetries
	}
	return &RedisStore{logger: logger, client: client, retries: retries}
}

// NewRedisClient builds a pooled client from the cache configuration
func NewRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	var result []byte
	err := rs.withRetry(ctx, func() error {
		val, err := rs.client.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}
		result = val
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return result, err
}

func (rs *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return rs.withRetry(ctx, func() error {
		return rs.client.Set(ctx, key, value, 0).Err()
	})
}

func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	return rs.withRetry(ctx, func() error {
		return rs.client.Del(ctx, key).Err()
	})
}

func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.withRetry(ctx, func() error {
		return rs.client.Ping(ctx).Err()
	})
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// Stats returns Redis connection pool statistics
func (rs *RedisStore) Stats() map[string]any {
	stats := rs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// withRetry runs operation with exponential backoff and ±50% jitter. Only
// network level failures are retried.
func (rs *RedisStore) withRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= rs.retries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == rs.retries || !isRetryableError(err) {
			break
		}

		backoff := min(baseBackoff<<attempt, maxBackoff)
		wait := backoff/2 + jitter(backoff/2)

		rs.logger.Debug("Retrying redis operation",
			gecho.Field("attempt", attempt+1),
			gecho.Field("wait", wait),
			gecho.Field("error", err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	if lastErr != nil && isRetryableError(lastErr) {
		return fmt.Errorf("redis operation failed after %d retries: %w", rs.retries, lastErr)
	}
	return lastErr
}

// jitter returns a random duration in [0, limit]
func jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return time.Duration(binary.BigEndian.Uint64(buf[:]) % uint64(limit+1))
}

// isRetryableError determines if an error is worth retrying
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}
