package model

import "time"

// Entry is one row of the SQL key-value table.
// This is a pure domain model with no database-specific dependencies or tags.
type Entry struct {
	Name      string
	Value     []byte
	UpdatedAt time.Time
}
