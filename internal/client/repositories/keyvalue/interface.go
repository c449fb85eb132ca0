// Package keyvalue defines the storage port behind the token store and
// its two physical adapters: a sqlite database (primary) and an
// encrypted flat file (fallback).
package keyvalue

import "context"

// Repository is a durable string-keyed byte store.
//
// Get returns (nil, nil) when the key is absent; callers distinguish
// absence from failure by the error value.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// SetMany writes all pairs atomically where the backend supports it,
	// so grouped session artifacts are not observed half-written.
	SetMany(ctx context.Context, pairs map[string][]byte) error

	Delete(ctx context.Context, key string) error

	// DeleteMany removes the given keys atomically where the backend
	// supports it. Missing keys are not an error.
	DeleteMany(ctx context.Context, keys []string) error

	Close() error
}
