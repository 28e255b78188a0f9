// Package kv is the client-local key-value storage: a single SQLite table
// holding opaque values under namespaced keys.
package kv

import (
	"context"
)

// Repository stores opaque values under string keys.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
