package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	DriverPgdriver = "pgdriver"
	DriverPgx      = "pgx"

	slowQueryThreshold = time.Second
)

// DB wraps the bun database handle
type DB struct {
	*bun.DB
}

// Connect opens the Postgres pool with the configured driver and pings it
func Connect(ctx context.Context, dbCfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := openSQL(dbCfg)
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(dbCfg.MaxConns)
	sqldb.SetMaxIdleConns(dbCfg.MinConns)
	sqldb.SetConnMaxLifetime(dbCfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(dbCfg.MaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&connectionHealthHook{logger: logger})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := WithRetry(pingCtx, func() error { return db.PingContext(pingCtx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully",
		gecho.Field("driver", driverName(dbCfg)),
		gecho.Field("database", dbCfg.Name),
	)

	return &DB{db}, nil
}

func driverName(dbCfg *structs.DatabaseConfig) string {
	if strings.EqualFold(dbCfg.Driver, DriverPgx) {
		return DriverPgx
	}
	return DriverPgdriver
}

func openSQL(dbCfg *structs.DatabaseConfig) (*sql.DB, error) {
	addr := net.JoinHostPort(dbCfg.Host, strconv.Itoa(dbCfg.Port))

	if driverName(dbCfg) == DriverPgx {
		connCfg, err := pgx.ParseConfig(dsn(dbCfg, addr))
		if err != nil {
			return nil, fmt.Errorf("invalid database config: %w", err)
		}
		return stdlib.OpenDB(*connCfg), nil
	}

	return sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(addr),
		pgdriver.WithUser(dbCfg.User),
		pgdriver.WithPassword(dbCfg.Password),
		pgdriver.WithDatabase(dbCfg.Name),
		pgdriver.WithInsecure(dbCfg.SSLMode == "" || dbCfg.SSLMode == "disable"),
		pgdriver.WithReadTimeout(dbCfg.ReadTimeout),
		pgdriver.WithWriteTimeout(dbCfg.WriteTimeout),
	)), nil
}

func dsn(dbCfg *structs.DatabaseConfig, addr string) string {
	sslMode := dbCfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:     addr,
		Path:     "/" + dbCfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// GetStats returns connection pool statistics for monitoring
func (db *DB) GetStats() sql.DBStats {
	return db.DB.DB.Stats()
}

// connectionHealthHook implements bun.QueryHook to monitor connection health
type connectionHealthHook struct {
	logger *gecho.Logger
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if duration := time.Since(event.StartTime); duration > slowQueryThreshold {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	if event.Err != nil {
		msg := event.Err.Error()
		if msg == "EOF" || msg == "unexpected EOF" {
			h.logger.Error("Database connection EOF error - connection may have been closed by server",
				gecho.Field("error", event.Err),
				gecho.Field("query", event.Query),
			)
		}
	}
}
