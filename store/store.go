// Package store defines the byte-store abstraction behind the remote tier.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding). The keyspace "tc:<namespace>:" is
// owned by tiercache; foreign writes under it may be treated as corruption
// and deleted.
//
// Redis is the intended shared deployment. The in-process adapters
// (ristretto, bigcache) exist for single-process deployments and tests;
// they cannot delete by prefix, so whole-namespace invalidation relies on
// the version stamp carried in every entry.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs. Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// IO/remote errors are returned as (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. Returns ok=false when the store
	// rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// PrefixDeleter is implemented by stores that can bulk-delete a key prefix.
// Stores without it fall back to lazy, version-stamp invalidation.
type PrefixDeleter interface {
	DelPrefix(ctx context.Context, prefix string) error
}
