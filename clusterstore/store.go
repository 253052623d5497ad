package clusterstore

import (
	"context"
	"time"
)

// Window describes the current counting bucket a counter key belongs to:
// a fixed-duration window identified by BucketKey, rolling over whenever
// the caller computes a new key for the current time.
type Window struct {
	Duration    time.Duration
	BucketKey   string
	BucketStart time.Time
}

// Store is the shared-counter backend cluster.TokenClient consults when a
// FlowRule's ClusterMode is set (SPEC_FULL.md §4.4). Implementations must
// be safe for concurrent use from multiple processes where applicable
// (Redis, SQLite) or multiple goroutines (memory).
type Store interface {
	// IncrementBy atomically adds n to the counter for key in the current
	// window bucket, resetting it first if the bucket has rolled over,
	// and returns the new count.
	IncrementBy(ctx context.Context, key string, w Window, n int64) (current int64, err error)

	// Increment is IncrementBy(ctx, key, w, 1).
	Increment(ctx context.Context, key string, w Window) (current int64, err error)

	// Get returns the current counter value for the key in the active
	// window bucket.
	Get(ctx context.Context, key string, w Window) (current int64, err error)

	// Reset removes the counter for the given key.
	Reset(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
