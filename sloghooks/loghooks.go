// Package sloghooks reports veganify.Hooks events as structured slog lines.
// Cache keys carry user input (barcodes, ingredient lists) and are redacted.
package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/veganify"
	"github.com/unkn0wn-root/veganify/internal/util"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EvictEvery   uint64
	RequestEvery uint64
	// LogCacheHits enables a debug line per hit and miss.
	LogCacheHits bool
	// Optional key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	evictCtr   atomic.Uint64
	requestCtr atomic.Uint64
}

var _ veganify.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return util.ShortHash(k)
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheHit(cache string) {
	if h.l == nil || !h.opts.LogCacheHits {
		return
	}
	h.l.Debug("veganify.cache_hit", "cache", cache)
}

func (h *Hooks) CacheMiss(cache string) {
	if h.l == nil || !h.opts.LogCacheHits {
		return
	}
	h.l.Debug("veganify.cache_miss", "cache", cache)
}

func (h *Hooks) Evicted(cache, key, reason string) {
	if h.l == nil || !sample(h.opts.EvictEvery, &h.evictCtr) {
		return
	}
	h.l.Debug("veganify.evicted",
		"cache", cache,
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(cache, key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("veganify.provider_set_rejected",
		"cache", cache,
		"key", h.redact(key))
}

func (h *Hooks) RequestDone(op string, status int, elapsed time.Duration, err error) {
	if h.l == nil {
		return
	}
	if err != nil {
		h.l.Warn("veganify.request_failed",
			"op", op,
			"status", status,
			"elapsed", elapsed,
			"err", err)
		return
	}
	if !sample(h.opts.RequestEvery, &h.requestCtr) {
		return
	}
	h.l.Info("veganify.request_done",
		"op", op,
		"status", status,
		"elapsed", elapsed)
}
