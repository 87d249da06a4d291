package postgres

import (
	"context"
	"database/sql"
	"time"

	"noterefiner/internal/model"
	"noterefiner/internal/repository"
)

// EntryPostgres is a SQL implementation of repository.EntryRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// The queries use $N placeholders and ON CONFLICT, so the same code serves the
// pgx driver and the modernc sqlite driver.
type EntryPostgres struct {
	db *sql.DB
}

// NewEntryPostgres creates a new EntryPostgres repository.
func NewEntryPostgres(db *sql.DB) *EntryPostgres {
	return &EntryPostgres{db: db}
}

var _ repository.EntryRepository = (*EntryPostgres)(nil)

// Find fetches a single entry by its name.
func (r *EntryPostgres) Find(ctx context.Context, name string) (*model.Entry, error) {
	const q = `
		SELECT name, value, updated_at
		FROM kv_entries
		WHERE name = $1
	`
	row := r.db.QueryRowContext(ctx, q, name)
	var (
		e       model.Entry
		updated int64
	)
	if err := row.Scan(&e.Name, &e.Value, &updated); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.UnixMilli(updated).UTC()
	return &e, nil
}

// Upsert writes the entry and returns the stored row.
func (r *EntryPostgres) Upsert(ctx context.Context, e *model.Entry) (*model.Entry, error) {
	const q = `
		INSERT INTO kv_entries (name, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		RETURNING name, updated_at
	`
	row := r.db.QueryRowContext(ctx, q, e.Name, e.Value, e.UpdatedAt.UnixMilli())
	var (
		out     model.Entry
		updated int64
	)
	if err := row.Scan(&out.Name, &updated); err != nil {
		return nil, err
	}
	out.Value = e.Value
	out.UpdatedAt = time.UnixMilli(updated).UTC()
	return &out, nil
}

// Delete removes an entry by name. It does not return an error if the row does not exist.
func (r *EntryPostgres) Delete(ctx context.Context, name string) error {
	const q = `DELETE FROM kv_entries WHERE name = $1`
	if _, err := r.db.ExecContext(ctx, q, name); err != nil {
		return err
	}
	return nil
}

// Ping verifies database connectivity.
func (r *EntryPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
