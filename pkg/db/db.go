// Package db provides the Postgres metadata store client.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// ResolverAddr optionally overrides the DNS server used to resolve
	// the database host (e.g. "8.8.8.8:53"). Some managed-database
	// networks need this; it is deployment plumbing, nothing more.
	ResolverAddr string
}

func New(ctx context.Context, cfg Config) (*bun.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if cfg.ResolverAddr != "" {
		dial := resolverDialer(cfg.ResolverAddr)
		opts = append(opts, func(conf *pgdriver.Config) {
			conf.Dialer = dial
		})
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

	db := bun.NewDB(sqldb, pgdialect.New())

	// Print SQL queries when BUNDEBUG is set.
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	return db, nil
}

// resolverDialer returns a dial function that resolves hostnames through
// the given DNS server instead of the system resolver.
func resolverDialer(resolverAddr string) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Resolver: &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				d := net.Dialer{Timeout: 5 * time.Second}
				return d.DialContext(ctx, network, resolverAddr)
			},
		},
	}
	return dialer.DialContext
}

var (
	sharedOnce sync.Once
	sharedDB   *bun.DB
	sharedErr  error
)

// Shared returns the process-wide connection handle, creating it on first
// use. Concurrent first callers share a single initialization; later
// callers reuse the handle.
func Shared(ctx context.Context, cfg Config) (*bun.DB, error) {
	sharedOnce.Do(func() {
		sharedDB, sharedErr = New(ctx, cfg)
	})
	return sharedDB, sharedErr
}
