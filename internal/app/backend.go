// Package app assembles the pieces shared by the API server and the notectl CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"noterefiner/internal/config"
	"noterefiner/internal/database"
	"noterefiner/internal/database/migration"
	"noterefiner/internal/repository/postgres"
	"noterefiner/internal/storage"
)

// Backend is an opened key-value backend plus the func that releases it.
type Backend struct {
	KV    storage.KeyValue
	Close func() error
}

// Ping reports backend health when the KV supports it.
func (b *Backend) Ping(ctx context.Context) error {
	if p, ok := b.KV.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// OpenBackend opens the backend named by cfg.Store.Backend. SQL backends are migrated
// before they are returned.
func OpenBackend(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	nop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return &Backend{KV: storage.NewMemory(), Close: nop}, nil

	case config.BackendBolt:
		b, err := storage.NewBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		return &Backend{KV: b, Close: b.Close}, nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return sqlBackend(ctx, db, migration.SQLite, log, cfg.Store.SQLitePath)

	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return sqlBackend(ctx, db, migration.Postgres, log, cfg.Database.Host)

	case config.BackendMinIO:
		m, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return &Backend{KV: m, Close: nop}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func sqlBackend(ctx context.Context, db *sql.DB, dialect migration.Dialect, log *zap.Logger, host string) (*Backend, error) {
	if err := migration.EnsureMigrated(ctx, db, dialect, log, host); err != nil {
		_ = db.Close()
		return nil, err
	}
	kv := storage.NewSQL(postgres.NewEntryPostgres(db))
	return &Backend{KV: kv, Close: db.Close}, nil
}
