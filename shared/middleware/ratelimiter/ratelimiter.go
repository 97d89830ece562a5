// Package ratelimiter keeps one token bucket per caller identity.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter manages rate limiting for multiple identities. Buckets unused
// for longer than expiration are dropped by Sweep.
type KeyedLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*entry
	limit      rate.Limit
	burst      int
	expiration time.Duration
	now        func() time.Time
}

// New creates a limiter allowing perSecond requests per identity with bursts of burst.
func New(perSecond float64, burst int, expiration time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:   make(map[string]*entry),
		limit:      rate.Limit(perSecond),
		burst:      burst,
		expiration: expiration,
		now:        time.Now,
	}
}

// Allow reports whether a request from identity may proceed now.
func (k *KeyedLimiter) Allow(identity string) bool {
	now := k.now()

	k.mu.Lock()
	e, ok := k.limiters[identity]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[identity] = e
	}
	e.lastSeen = now
	k.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Sweep drops idle buckets and returns how many were removed.
func (k *KeyedLimiter) Sweep() int {
	cutoff := k.now().Add(-k.expiration)

	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for id, e := range k.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(k.limiters, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until stop is closed.
func (k *KeyedLimiter) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			k.Sweep()
		case <-stop:
			return
		}
	}
}

func (k *KeyedLimiter) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
