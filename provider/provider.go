// Package provider defines the byte store behind each response cache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). Entries are framed by the cache
// itself; a provider never interprets them.
//
// Expiry enforced by a provider is only a memory backstop. The cache decides
// staleness from the timestamp inside each entry.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Clear removes every key held by this provider.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Factory builds one provider per cache. name identifies the cache
// ("product", "ingredients", ...) and ttl is the longest time the provider
// must keep an entry. It already includes a short grace past the cache's own
// lifetime and matches the ttl later passed to Set.
type Factory func(name string, ttl time.Duration) (Provider, error)
