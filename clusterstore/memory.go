package clusterstore

import (
	"context"
	"sync"
)

type bucket struct {
	count     int64
	bucketKey string
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store. Safe for concurrent use; counters are
// lost on process restart.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucket)}
}

func (m *MemoryStore) IncrementBy(_ context.Context, key string, w Window, n int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || b.bucketKey != w.BucketKey {
		b = &bucket{bucketKey: w.BucketKey}
		m.buckets[key] = b
	}

	b.count += n
	return b.count, nil
}

func (m *MemoryStore) Increment(ctx context.Context, key string, w Window) (int64, error) {
	return m.IncrementBy(ctx, key, w, 1)
}

func (m *MemoryStore) Get(_ context.Context, key string, w Window) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || b.bucketKey != w.BucketKey {
		return 0, nil
	}
	return b.count, nil
}

func (m *MemoryStore) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
