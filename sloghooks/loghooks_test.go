package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsKeys(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.Evicted("product", "product:4000417025005", "expired")
	h.ProviderSetRejected("product", "product:4000417025005")

	out := buf.String()
	if strings.Contains(out, "4000417025005") {
		t.Fatalf("raw key leaked: %s", out)
	}
	if !strings.Contains(out, "reason=expired") || !strings.Contains(out, "veganify.provider_set_rejected") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCustomRedact(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{Redact: func(string) string { return "xxx" }})
	h.Evicted("peta", "peta:crueltyfree", "corrupt")
	if !strings.Contains(buf.String(), "key=xxx") {
		t.Fatalf("custom redactor not used: %s", buf.String())
	}
}

func TestSampling(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{EvictEvery: 3})
	for i := 0; i < 9; i++ {
		h.Evicted("peta", "k", "expired")
	}
	if n := strings.Count(buf.String(), "veganify.evicted"); n != 3 {
		t.Fatalf("logged %d evictions, want 3", n)
	}
}

func TestRequestFailuresAreNeverSampled(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{RequestEvery: 100})
	h.RequestDone("peta", 503, time.Millisecond, errors.New("busy"))
	h.RequestDone("peta", 200, time.Millisecond, nil)
	out := buf.String()
	if !strings.Contains(out, "veganify.request_failed") {
		t.Fatalf("failure not logged: %s", out)
	}
	if strings.Contains(out, "veganify.request_done") {
		t.Fatalf("success should be sampled out: %s", out)
	}
}

func TestHitsOptIn(t *testing.T) {
	buf, l := newBuf()
	New(l, Options{}).CacheHit("peta")
	if buf.Len() != 0 {
		t.Fatalf("hit logged without LogCacheHits: %s", buf.String())
	}
	New(l, Options{LogCacheHits: true}).CacheMiss("peta")
	if !strings.Contains(buf.String(), "veganify.cache_miss") {
		t.Fatalf("miss not logged: %s", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{LogCacheHits: true})
	h.CacheHit("p")
	h.CacheMiss("p")
	h.Evicted("p", "k", "expired")
	h.ProviderSetRejected("p", "k")
	h.RequestDone("p", 0, 0, errors.New("x"))
}
