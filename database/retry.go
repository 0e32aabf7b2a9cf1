package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	EnableRetry  bool
}

// DefaultRetryConfig returns the defaults used by WithRetry
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		EnableRetry:  true,
	}
}

// SQLState extracts the SQLSTATE code from a pgdriver or pgx error
func SQLState(err error) (string, bool) {
	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return driverErr.Field('C'), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}

	return "", false
}

// isRetryableError reports whether err looks transient
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, sql.ErrNoRows) {
		return false
	}

	if code, ok := SQLState(err); ok {
		switch {
		case code == "40001", // serialization_failure
			code == "40P01", // deadlock_detected
			code == "57P03": // cannot_connect_now
			return true
		case strings.HasPrefix(code, "08"): // connection exceptions
			return true
		case strings.HasPrefix(code, "53"): // insufficient resources
			return true
		default:
			// integrity violations (23), syntax and access (42), read only (25) and the rest
			return false
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, transient := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
		"connection closed",
		"bad connection",
		"too many clients",
		"server is not accepting",
		"temporary failure",
	} {
		if strings.Contains(errMsg, transient) {
			return true
		}
	}

	return false
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation func() error) error {
	if !config.EnableRetry {
		return operation()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return err
		}

		if attempt >= config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = min(time.Duration(float64(delay)*config.Multiplier), config.MaxDelay)
		}
	}

	return lastErr
}

// WithRetry wraps a database operation with retry logic
func WithRetry(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, DefaultRetryConfig(), fn)
}
