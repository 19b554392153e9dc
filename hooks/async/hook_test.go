package asynchook

import (
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/veganify"
)

type counting struct {
	veganify.NopHooks
	mu       sync.Mutex
	hits     int
	requests []string
	block    chan struct{}
}

func (c *counting) CacheHit(string) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *counting) RequestDone(op string, _ int, _ time.Duration, _ error) {
	c.mu.Lock()
	c.requests = append(c.requests, op)
	c.mu.Unlock()
}

func TestDeliversBeforeClose(t *testing.T) {
	inner := &counting{}
	h := New(inner, 2, 64)
	for i := 0; i < 10; i++ {
		h.CacheHit("peta")
	}
	h.RequestDone("product lookup", 200, time.Millisecond, nil)
	h.Close()

	if inner.hits != 10 {
		t.Fatalf("hits=%d want 10", inner.hits)
	}
	if len(inner.requests) != 1 || inner.requests[0] != "product lookup" {
		t.Fatalf("requests=%v", inner.requests)
	}
	if h.Dropped() != 0 {
		t.Fatalf("dropped=%d", h.Dropped())
	}
}

func TestDropsWhenFull(t *testing.T) {
	inner := &counting{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// One event occupies the worker, one fills the queue, the rest drop.
	for i := 0; i < 5; i++ {
		h.CacheHit("peta")
	}
	close(inner.block)
	h.Close()

	if h.Dropped() == 0 {
		t.Fatalf("expected drops")
	}
	if uint64(inner.hits)+h.Dropped() != 5 {
		t.Fatalf("hits=%d dropped=%d, want total 5", inner.hits, h.Dropped())
	}
}

func TestAfterCloseIsDropped(t *testing.T) {
	inner := &counting{}
	h := New(inner, 0, 0)
	h.Close()
	h.Close()
	h.CacheHit("peta")
	if h.Dropped() != 1 || inner.hits != 0 {
		t.Fatalf("dropped=%d hits=%d", h.Dropped(), inner.hits)
	}
}
