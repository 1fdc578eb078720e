// Package ratelimit implements per-account admission control for plan
// generation. The window counter lives in Redis so the limit holds
// across horizontally scaled instances; the state is ephemeral and may
// be rebuilt at any time with no correctness loss beyond temporarily
// relaxed limiting.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/qwikplan/backend/pkg/cache"
)

const keyPrefix = "admission:plan:"

// Decision is the outcome of an admission check. When Allowed is
// false, RetryAfter is the whole-second wait until the window next
// admits a request, never below one second.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Window is a fixed-size rolling window limiter keyed by account
type Window struct {
	cache  *cache.Client
	limit  int
	period time.Duration
}

// NewWindow creates an admission window allowing limit requests per period
func NewWindow(c *cache.Client, limit int, period time.Duration) *Window {
	if limit <= 0 {
		limit = 5
	}
	if period <= 0 {
		period = time.Minute
	}
	return &Window{cache: c, limit: limit, period: period}
}

// Allow answers whether the account may proceed right now. The counter
// increment and expiry are pipelined; the key expires when the window
// rolls over.
func (w *Window) Allow(ctx context.Context, accountID string) (Decision, error) {
	key := keyPrefix + accountID

	pipe := w.cache.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, w.period)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed checking admission window: %w", err)
	}

	if incr.Val() <= int64(w.limit) {
		return Decision{Allowed: true}, nil
	}

	ttl, err := w.cache.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		ttl = w.period
	}

	// Whole seconds, rounded up, floored at one second
	secs := (ttl + time.Second - 1) / time.Second
	if secs < 1 {
		secs = 1
	}

	return Decision{Allowed: false, RetryAfter: time.Duration(secs) * time.Second}, nil
}
