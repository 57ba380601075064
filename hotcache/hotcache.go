// Package hotcache defines the byte store the Resolver uses to memoize fully
// resolved strings. Implementations must be safe for concurrent use and
// byte-for-byte transparent: Get returns exactly what Set stored.
//
// This is a bounded-staleness cache: entries live at most their TTL, and the
// Resolver purges it wholesale when the underlying table is invalidated.
package hotcache

import (
	"context"
	"time"
)

type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. Returns ok=false when the store
	// rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes one key (best-effort).
	Del(ctx context.Context, key string) error

	// Purge drops every entry.
	Purge(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}
