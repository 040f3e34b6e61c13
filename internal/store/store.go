// Package store provides the key-value store used for score caching and
// client interest lookups.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by MockStore when failure injection is enabled.
// Real implementations return their client's own errors.
var ErrUnavailable = errors.New("store unavailable")

// Store is the key-value port consumed by the scoring service.
type Store interface {
	// Get returns the string stored at key. ok is false when the key does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value at key. A zero ttl keeps the key without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// GetList returns every element of the list at key, empty when missing.
	GetList(ctx context.Context, key string) ([]string, error)
	// SetList prepends values to the list at key.
	SetList(ctx context.Context, key string, values ...string) error
	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// BulkStore adds multi-key string operations, used by the seeding tool.
type BulkStore interface {
	Store
	// GetMany returns the values of keys in order; missing keys yield nil entries.
	GetMany(ctx context.Context, keys ...string) ([]*string, error)
	// SetMany stores every key/value pair without expiry.
	SetMany(ctx context.Context, values map[string]string) error
}
