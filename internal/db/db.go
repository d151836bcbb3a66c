// Package db defines the shared key-value store used for cross-replica request counters.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
type Store interface {
	Pinger
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CounterStore provides atomic counters with expiry.
type CounterStore interface {
	// Incr increments key by one and returns the new value. A missing key starts at zero.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets a TTL on key. When nx=true the TTL is only set if the key has none yet.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
