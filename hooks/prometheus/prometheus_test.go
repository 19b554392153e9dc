package promhooks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	h := New(Options{})
	h.CacheHit("peta")
	h.CacheHit("peta")
	h.CacheMiss("peta")
	h.Evicted("product", "product:1", "expired")
	h.ProviderSetRejected("product", "product:1")
	h.RequestDone("product lookup", 200, 30*time.Millisecond, nil)
	h.RequestDone("product lookup", 0, time.Millisecond, errors.New("dial"))

	if got := testutil.ToFloat64(h.cacheLookups.WithLabelValues("peta", "hit")); got != 2 {
		t.Fatalf("hits=%v want 2", got)
	}
	if got := testutil.ToFloat64(h.cacheLookups.WithLabelValues("peta", "miss")); got != 1 {
		t.Fatalf("misses=%v want 1", got)
	}
	if got := testutil.ToFloat64(h.evictions.WithLabelValues("product", "expired")); got != 1 {
		t.Fatalf("evictions=%v want 1", got)
	}
	if got := testutil.ToFloat64(h.setRejected.WithLabelValues("product")); got != 1 {
		t.Fatalf("rejected=%v want 1", got)
	}
	if got := testutil.ToFloat64(h.requestsTotal.WithLabelValues("product lookup", "0")); got != 1 {
		t.Fatalf("requests code=0: %v", got)
	}
	if n := testutil.CollectAndCount(h.requestDuration); n != 1 {
		t.Fatalf("histogram series=%d want 1", n)
	}
}

func TestRegisterAndExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(Options{Namespace: "test"})
	if err := h.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := h.Register(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	h.RequestDone("peta", 503, time.Second, errors.New("busy"))

	want := `
# HELP test_requests_total API requests by operation and status code (0 = no response)
# TYPE test_requests_total counter
test_requests_total{code="503",op="peta"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "test_requests_total"); err != nil {
		t.Fatalf("exposition: %v", err)
	}
}
