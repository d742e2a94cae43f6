// Package kv provides the single-slot key-value media that feedback data is
// persisted into. Every backend stores an opaque value per key; callers own
// the serialization.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("kv: key not found")

// Storage is a persistent key-value medium
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Name returns the backend name (for logging)
	Name() string
}

// Closer is implemented by backends that hold a connection
type Closer interface {
	Close() error
}

// Close releases the backend's resources if it holds any
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
