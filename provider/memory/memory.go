// Package memory is the default in-process provider: a mutex-guarded map.
// Expired entries are dropped lazily on Get; there is no background sweep.
package memory

import (
	"context"
	"sync"
	"time"

	pr "github.com/unkn0wn-root/veganify/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Provider struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

var _ pr.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{m: make(map[string]entry), now: time.Now}
}

// Factory adapts New to provider.Factory.
func Factory(string, time.Duration) (pr.Provider, error) { return New(), nil }

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && p.now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = p.now().Add(ttl)
	}
	p.mu.Lock()
	p.m[key] = entry{v: value, exp: exp}
	p.mu.Unlock()
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

func (p *Provider) Clear(context.Context) error {
	p.mu.Lock()
	clear(p.m)
	p.mu.Unlock()
	return nil
}

func (p *Provider) Close(ctx context.Context) error { return p.Clear(ctx) }

// Len reports the number of stored entries, expired ones included.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
