package repository

import (
	"context"

	"noterefiner/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

// EntryRepository defines data access for key-value entries using SQL queries only.
// No business logic here — strictly persistence operations.
type EntryRepository interface {
	// Find returns the entry stored under name, or sql.ErrNoRows.
	Find(ctx context.Context, name string) (*model.Entry, error)

	// Upsert inserts the entry or replaces the value of an existing one.
	// Returns the stored entry.
	Upsert(ctx context.Context, e *model.Entry) (*model.Entry, error)

	// Delete removes an entry by name. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, name string) error

	// Ping verifies the underlying connection.
	Ping(ctx context.Context) error
}
