package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dialect names the SQL engine the steps are written for.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = map[Dialect][]migrationStep{
	Postgres: {
		{
			Name: "create_table_kv_entries",
			SQL: `CREATE TABLE IF NOT EXISTS kv_entries (
  name       TEXT   PRIMARY KEY,
  value      BYTEA  NOT NULL,
  updated_at BIGINT NOT NULL
);`,
		},
		{
			Name: "create_index_kv_entries_updated_at",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries (updated_at);`,
		},
	},
	SQLite: {
		{
			Name: "create_table_kv_entries",
			SQL: `CREATE TABLE IF NOT EXISTS kv_entries (
  name       TEXT    PRIMARY KEY,
  value      BLOB    NOT NULL,
  updated_at INTEGER NOT NULL
);`,
		},
		{
			Name: "create_index_kv_entries_updated_at",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries (updated_at);`,
		},
	},
}

var sentinelQueries = map[Dialect]string{
	Postgres: "SELECT to_regclass('public.kv_entries') IS NOT NULL",
	SQLite:   "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries')",
}

// EnsureMigrated checks if the 'kv_entries' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect Dialect, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(
		zap.String("component", "database"),
		zap.String("dialect", string(dialect)),
		zap.String("db_host", dbHost),
	)

	query, ok := sentinelQueries[dialect]
	if !ok {
		return fmt.Errorf("unsupported migration dialect: %s", dialect)
	}

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps[dialect] {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
