package veganify

import (
	"net/http"
	"strings"
	"time"

	pr "github.com/unkn0wn-root/veganify/provider"
)

const (
	ProductionBaseURL = "https://api.veganify.app"
	StagingBaseURL    = "https://staging.api.veganify.app"
)

// Config is captured once by New; later changes to the struct have no effect
// on the Client. Only the zero value is needed for production use.
type Config struct {
	BaseURL string // overrides Staging when set
	Staging bool   // use StagingBaseURL

	CacheTTL     time.Duration // 0 => DefaultCacheTTL; < 0 disables caching
	DisableCache bool

	// Providers builds the byte store of each cache. nil => in-process memory.
	Providers pr.Factory
	// Backend names what Providers builds, e.g. "ristretto". Registry keys on
	// it since functions cannot be compared, and rejects a non-nil Providers
	// with an empty Backend. "" => "memory".
	Backend string
	// Codec names the cache value codec: "json" (default), "msgpack" or "cbor".
	Codec string
	// MaxEntryBytes caps the size of a cached payload accepted on read. 0 => no cap.
	MaxEntryBytes int

	HTTPClient *http.Client // nil => http.DefaultClient
	Header     http.Header  // extra headers on every request; may override Accept

	// CoalesceRequests makes concurrent misses for one key share a single
	// request. Off by default: identical concurrent misses each hit the API.
	CoalesceRequests bool

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	now func() time.Time // tests only
}

func (cfg Config) baseURL() string {
	base := cfg.BaseURL
	if base == "" {
		base = ProductionBaseURL
		if cfg.Staging {
			base = StagingBaseURL
		}
	}
	return strings.TrimRight(base, "/")
}

func (cfg Config) cacheTTL() time.Duration {
	if cfg.DisableCache || cfg.CacheTTL < 0 {
		return 0
	}
	return coalesce(cfg.CacheTTL, DefaultCacheTTL)
}
