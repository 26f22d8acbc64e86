package service

import (
	"context"
	"sync"
	"time"

	"github.com/msomdec/o2o-admin/internal/pkg/clock"
)

// TokenBucket is an in-memory per-key rate limiter. It is safe for
// concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	clock    clock.Clock
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a limiter allowing bursts of capacity per key,
// refilling at rate tokens per second.
func NewTokenBucket(clk clock.Clock, rate, capacity float64) *TokenBucket {
	return &TokenBucket{
		clock:    clk,
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
	}
}

// Allow consumes one token for key and reports whether one was available.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.clock.Now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Prune drops buckets idle for longer than maxIdle and returns how many
// were removed.
func (tb *TokenBucket) Prune(maxIdle time.Duration) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	cutoff := tb.clock.Now().Add(-maxIdle)
	removed := 0
	for key, b := range tb.buckets {
		if b.last.Before(cutoff) {
			delete(tb.buckets, key)
			removed++
		}
	}
	return removed
}

// RunPruner calls Prune every interval until ctx is done.
func (tb *TokenBucket) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tb.Prune(maxIdle)
		}
	}
}
