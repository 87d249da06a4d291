package storage

import (
	"context"
	"errors"
)

// Package storage contains the key-value abstraction the note store persists through,
// plus its backends. Every backend keeps whole values under string keys; none of them
// interpret the bytes.

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is the minimal persistence interface: a named slot holding one value.
// Implementations must be safe for concurrent use.
type KeyValue interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by backends holding resources that must be released on shutdown.
type Closer interface {
	Close() error
}
