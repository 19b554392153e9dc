package veganify

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/veganify/codec"
	"github.com/unkn0wn-root/veganify/internal/util"
	"github.com/unkn0wn-root/veganify/internal/wire"
	pr "github.com/unkn0wn-root/veganify/provider"
	"github.com/unkn0wn-root/veganify/provider/memory"
)

// DefaultCacheTTL is used when Config.CacheTTL is zero.
const DefaultCacheTTL = 30 * time.Minute

// expiryGrace keeps provider-side expiry behind the cache's own staleness
// check, which is the one that decides.
const expiryGrace = time.Second

type SetCostFunc func(key string, raw []byte) int64

// CacheOptions configure a TTLCache. Only Name is required.
type CacheOptions[V any] struct {
	Name           string        // used in logs and hooks, e.g. "product"
	TTL            time.Duration // <= 0 disables the cache
	Provider       pr.Provider   // nil => in-process memory provider
	Codec          c.Codec[V]    // nil => JSON
	Logger         Logger        // nil => NopLogger
	Hooks          Hooks         // nil => NopHooks
	ComputeSetCost SetCostFunc   // default: len(raw)
	Now            func() time.Time
}

// TTLCache is a key/value cache with per-entry expiry. Each Get decodes a new
// V, so mutating a returned value never affects the cache or other callers.
// Expiry is lazy: a stale entry is removed when it is read.
//
// Safe for concurrent use. Two callers missing the same key may both fetch
// and both Set; the last Set wins.
type TTLCache[V any] struct {
	name           string
	provider       pr.Provider
	codec          c.Codec[V]
	log            Logger
	hooks          Hooks
	enabled        bool
	ttl            time.Duration
	computeSetCost SetCostFunc
	now            func() time.Time
}

func NewTTLCache[V any](opts CacheOptions[V]) (*TTLCache[V], error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("veganify: cache name is required")
	}

	tc := &TTLCache[V]{
		name:    opts.Name,
		ttl:     opts.TTL,
		enabled: opts.TTL > 0,
	}

	tc.log = coalesce[Logger](opts.Logger, NopLogger{})
	tc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	tc.codec = coalesce[c.Codec[V]](opts.Codec, c.JSON[V]{})
	tc.provider = opts.Provider
	if tc.provider == nil {
		tc.provider = memory.New()
	}

	if opts.ComputeSetCost != nil {
		tc.computeSetCost = opts.ComputeSetCost
	} else {
		tc.computeSetCost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	}
	if opts.Now != nil {
		tc.now = opts.Now
	} else {
		tc.now = time.Now
	}
	return tc, nil
}

func (tc *TTLCache[V]) Name() string { return tc.name }

// Enabled reports whether the cache was built with a positive TTL.
func (tc *TTLCache[V]) Enabled() bool { return tc.enabled }

func (tc *TTLCache[V]) TTL() time.Duration { return tc.ttl }

// Get returns an independent copy of the entry stored under key.
// Provider errors are returned; corrupt or expired entries are deleted and
// reported as a miss.
func (tc *TTLCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !tc.enabled {
		return zero, false, nil
	}
	raw, ok, err := tc.provider.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		tc.hooks.CacheMiss(tc.name)
		return zero, false, nil
	}
	storedAt, payload, err := wire.Decode(raw)
	if err != nil {
		tc.evict(ctx, key, "corrupt")
		return zero, false, nil
	}
	if tc.now().Sub(storedAt) > tc.ttl {
		tc.evict(ctx, key, "expired")
		return zero, false, nil
	}
	v, err := tc.codec.Decode(payload)
	if err != nil {
		tc.evict(ctx, key, "value_decode")
		return zero, false, nil
	}
	tc.hooks.CacheHit(tc.name)
	return v, true, nil
}

// Set stores an encoded copy of value, replacing any entry under key and
// starting a fresh TTL window. It is a no-op on a disabled cache.
func (tc *TTLCache[V]) Set(ctx context.Context, key string, value V) error {
	if !tc.enabled {
		return nil
	}
	payload, err := tc.codec.Encode(value)
	if err != nil {
		return err
	}
	entry := wire.Encode(tc.now(), payload)
	ok, err := tc.provider.Set(ctx, key, entry, tc.computeSetCost(key, entry), tc.ttl+expiryGrace)
	if err != nil {
		return err
	}
	if !ok {
		tc.hooks.ProviderSetRejected(tc.name, key)
		tc.log.Debug("cache set rejected by provider (pressure)", Fields{"cache": tc.name, "key": util.ShortHash(key)})
	}
	return nil
}

// Clone returns an independent copy of v made through the cache's codec.
func (tc *TTLCache[V]) Clone(v V) (V, error) {
	b, err := tc.codec.Encode(v)
	if err != nil {
		var zero V
		return zero, err
	}
	return tc.codec.Decode(b)
}

// Clear removes every entry.
func (tc *TTLCache[V]) Clear(ctx context.Context) error {
	if err := tc.provider.Clear(ctx); err != nil {
		return fmt.Errorf("veganify: clear %s cache: %w", tc.name, err)
	}
	tc.log.Debug("cache cleared", Fields{"cache": tc.name})
	return nil
}

func (tc *TTLCache[V]) Close(ctx context.Context) error {
	return tc.provider.Close(ctx)
}

func (tc *TTLCache[V]) evict(ctx context.Context, key, reason string) {
	_ = tc.provider.Del(ctx, key) // self-heal
	tc.hooks.Evicted(tc.name, key, reason)
	tc.hooks.CacheMiss(tc.name)
	tc.log.Debug("cache entry evicted", Fields{"cache": tc.name, "key": util.ShortHash(key), "reason": reason})
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
