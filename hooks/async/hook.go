// Package asynchook moves Hooks calls off the request path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{EvictEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	client, _ := veganify.New(veganify.Config{Hooks: hooks})
//
// Events are dropped while the queue is full.
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/veganify"
)

type Hooks struct {
	inner   veganify.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards q against send-after-close
	closed  bool
	dropped atomic.Uint64
}

var _ veganify.Hooks = (*Hooks)(nil)

func New(inner veganify.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Later events are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) CacheHit(c string)  { h.try(func() { h.inner.CacheHit(c) }) }
func (h *Hooks) CacheMiss(c string) { h.try(func() { h.inner.CacheMiss(c) }) }
func (h *Hooks) Evicted(c, k, r string) {
	h.try(func() { h.inner.Evicted(c, k, r) })
}
func (h *Hooks) ProviderSetRejected(c, k string) {
	h.try(func() { h.inner.ProviderSetRejected(c, k) })
}
func (h *Hooks) RequestDone(op string, status int, elapsed time.Duration, err error) {
	h.try(func() { h.inner.RequestDone(op, status, elapsed, err) })
}
