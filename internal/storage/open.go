package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/userdesk/internal/config"
	"github.com/JonMunkholm/userdesk/internal/core"
)

// Opened is a configured store plus whatever must be released on shutdown.
type Opened struct {
	Store core.Store
	Pool  *pgxpool.Pool // nil unless the postgres driver is used
}

// Close releases the database pool, if any.
func (o *Opened) Close() {
	if o.Pool != nil {
		o.Pool.Close()
	}
}

// Open builds the store selected by cfg.Storage.Driver. For postgres it
// connects, pings and, when enabled, applies migrations.
func Open(ctx context.Context, cfg *config.Config) (*Opened, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case config.DriverMemory:
		slog.Info("using in-memory store; records are lost on exit")
		return &Opened{Store: core.NewMemoryStore()}, nil

	case config.DriverPostgres:
		pool, err := OpenPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := Migrate(pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Opened{Store: NewPostgresStore(pool, cfg.Storage.Key), Pool: pool}, nil

	default:
		fs, err := NewFileStore(cfg.Storage.Dir, cfg.Storage.Key)
		if err != nil {
			return nil, err
		}
		slog.Info("using file store", "path", fs.Path())
		return &Opened{Store: fs}, nil
	}
}

// OpenPool parses the database URL, applies pool limits and verifies the
// connection.
func OpenPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(db.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
