// Package promhooks exports veganify.Hooks events as Prometheus metrics.
package promhooks

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/unkn0wn-root/veganify"
)

// Default request duration buckets, in seconds.
var defaultBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

type Options struct {
	Namespace string    // "" => "veganify"
	Buckets   []float64 // nil => defaultBuckets
}

// Hooks holds the collectors. Register them with Register or expose the
// whole set through Collectors.
type Hooks struct {
	cacheLookups    *prometheus.CounterVec
	evictions       *prometheus.CounterVec
	setRejected     *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ veganify.Hooks = (*Hooks)(nil)

func New(opts Options) *Hooks {
	ns := opts.Namespace
	if ns == "" {
		ns = "veganify"
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}

	return &Hooks{
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by cache and result (hit or miss)",
			},
			[]string{"cache", "result"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "cache_evictions_total",
				Help:      "Entries removed on read, by cache and reason",
			},
			[]string{"cache", "reason"},
		),
		setRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "cache_set_rejected_total",
				Help:      "Writes the cache provider refused",
			},
			[]string{"cache"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "requests_total",
				Help:      "API requests by operation and status code (0 = no response)",
			},
			[]string{"op", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   buckets,
			},
			[]string{"op"},
		),
	}
}

func (h *Hooks) Collectors() []prometheus.Collector {
	return []prometheus.Collector{h.cacheLookups, h.evictions, h.setRejected, h.requestsTotal, h.requestDuration}
}

// Register adds every collector to reg.
func (h *Hooks) Register(reg prometheus.Registerer) error {
	for _, c := range h.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hooks) CacheHit(cache string)  { h.cacheLookups.WithLabelValues(cache, "hit").Inc() }
func (h *Hooks) CacheMiss(cache string) { h.cacheLookups.WithLabelValues(cache, "miss").Inc() }

func (h *Hooks) Evicted(cache, _, reason string) {
	h.evictions.WithLabelValues(cache, reason).Inc()
}

func (h *Hooks) ProviderSetRejected(cache, _ string) {
	h.setRejected.WithLabelValues(cache).Inc()
}

func (h *Hooks) RequestDone(op string, status int, elapsed time.Duration, _ error) {
	h.requestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	h.requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
