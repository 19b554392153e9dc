package main

import (
	"time"

	"github.com/unkn0wn-root/veganify"
)

// multiHooks forwards every event to each hook in order.
type multiHooks []veganify.Hooks

func fanout(hs []veganify.Hooks) veganify.Hooks {
	switch len(hs) {
	case 0:
		return nil
	case 1:
		return hs[0]
	}
	return multiHooks(hs)
}

func (m multiHooks) CacheHit(c string) {
	for _, h := range m {
		h.CacheHit(c)
	}
}

func (m multiHooks) CacheMiss(c string) {
	for _, h := range m {
		h.CacheMiss(c)
	}
}

func (m multiHooks) Evicted(c, k, r string) {
	for _, h := range m {
		h.Evicted(c, k, r)
	}
}

func (m multiHooks) ProviderSetRejected(c, k string) {
	for _, h := range m {
		h.ProviderSetRejected(c, k)
	}
}

func (m multiHooks) RequestDone(op string, status int, elapsed time.Duration, err error) {
	for _, h := range m {
		h.RequestDone(op, status, elapsed, err)
	}
}
