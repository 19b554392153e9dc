package veganify

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// Registry hands out one shared Client per equivalent configuration.
// The zero value is not usable; call NewRegistry.
//
// Configs are equivalent when their base URL, effective cache TTL, backend,
// codec, entry cap, coalescing and HTTP client agree. Logger, Hooks and
// Header are taken from the first config seen for a key. A config with a
// Providers factory must name it in Backend.
type Registry struct {
	mu      sync.Mutex
	clients map[registryKey]*Client
	closed  bool
}

type registryKey struct {
	baseURL  string
	ttl      time.Duration
	backend  string
	codec    string
	maxEntry int
	coalesce bool
	hc       *http.Client
}

var (
	ErrRegistryClosed = errors.New("veganify: registry closed")
	ErrUnnamedBackend = errors.New("veganify: Config.Providers set without a Config.Backend name")
)

func NewRegistry() *Registry {
	return &Registry{clients: make(map[registryKey]*Client)}
}

func keyOf(cfg Config) registryKey {
	return registryKey{
		baseURL:  cfg.baseURL(),
		ttl:      cfg.cacheTTL(),
		backend:  coalesce(cfg.Backend, "memory"),
		codec:    coalesce(cfg.Codec, "json"),
		maxEntry: cfg.MaxEntryBytes,
		coalesce: cfg.CoalesceRequests,
		hc:       cfg.HTTPClient,
	}
}

// Client returns the Client registered for cfg, building it on first use.
func (r *Registry) Client(cfg Config) (*Client, error) {
	if cfg.Providers != nil && cfg.Backend == "" {
		return nil, ErrUnnamedBackend
	}
	k := keyOf(cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if cl, ok := r.clients[k]; ok {
		return cl, nil
	}
	cl, err := New(cfg)
	if err != nil {
		return nil, err
	}
	r.clients[k] = cl
	return cl, nil
}

// Len reports how many distinct clients have been built.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Close closes every registered Client. Further Client calls fail with
// ErrRegistryClosed.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[registryKey]*Client)
	r.closed = true
	r.mu.Unlock()

	var errs []error
	for _, cl := range clients {
		errs = append(errs, cl.Close(ctx))
	}
	return errors.Join(errs...)
}
