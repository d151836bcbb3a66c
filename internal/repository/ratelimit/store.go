package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// store is the consumer interface for window counters (ISP).
type store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// WindowLimiter is a fixed-window request counter shared by all replicas through the store.
// Each client may make limit requests per window.
type WindowLimiter struct {
	store  store
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// New creates a window limiter. Keys are prefix + client + ":" + window start (unix ms).
func New(s store, prefix string, limit int, window time.Duration) *WindowLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &WindowLimiter{
		store:  s,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// NewFromRate derives a window that admits burst requests and refills at rps on average.
func NewFromRate(s store, prefix string, rps float64, burst int) *WindowLimiter {
	if burst < 1 {
		burst = 1
	}
	window := time.Second
	if rps > 0 {
		window = time.Duration(float64(burst) / rps * float64(time.Second))
	}
	return New(s, prefix, burst, window)
}

// Allow counts one request for client and reports whether it fits in the current window.
func (l *WindowLimiter) Allow(ctx context.Context, client string) (bool, error) {
	key := l.key(client)

	n, err := l.store.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("ratelimit INCR %s: %w", key, err)
	}

	// Set TTL only on the first hit of the window (NX: not reset on repeat).
	if n == 1 {
		if err := l.store.Expire(ctx, key, 2*l.window, true); err != nil {
			return false, fmt.Errorf("ratelimit EXPIRE %s: %w", key, err)
		}
	}

	return n <= l.limit, nil
}

func (l *WindowLimiter) key(client string) string {
	start := l.now().Truncate(l.window).UnixMilli()
	return l.prefix + client + ":" + strconv.FormatInt(start, 10)
}
