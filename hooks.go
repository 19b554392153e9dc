package veganify

import "time"

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run on the request path.
type Hooks interface {
	// A cache lookup was served from the cache.
	CacheHit(cache string)

	// A cache lookup missed, including misses caused by eviction.
	CacheMiss(cache string)

	// An entry was deleted by the cache on read.
	// reason ∈ {"expired", "corrupt", "value_decode"}
	Evicted(cache, key, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(cache, key string)

	// One HTTP attempt finished. status is 0 when no response arrived.
	RequestDone(op string, status int, elapsed time.Duration, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(string)                               {}
func (NopHooks) CacheMiss(string)                              {}
func (NopHooks) Evicted(string, string, string)                {}
func (NopHooks) ProviderSetRejected(string, string)            {}
func (NopHooks) RequestDone(string, int, time.Duration, error) {}
