package clusterstore

import "context"

var _ Store = (*TieredStore)(nil)

// TieredStore wraps an in-memory store (fast path) with a persistent
// backend (durable path). Writes go to both (write-through); reads check
// memory first and fall back to the persistent store on a miss.
type TieredStore struct {
	memory     *MemoryStore
	persistent Store
}

// NewTieredStore creates a TieredStore backed by the given persistent
// store. An internal MemoryStore is created automatically.
func NewTieredStore(persistent Store) *TieredStore {
	return &TieredStore{memory: NewMemoryStore(), persistent: persistent}
}

// IncrementBy writes through to both memory and the persistent backend.
// The persistent store is authoritative for the returned count.
func (t *TieredStore) IncrementBy(ctx context.Context, key string, w Window, n int64) (int64, error) {
	count, err := t.persistent.IncrementBy(ctx, key, w, n)
	if err != nil {
		return 0, err
	}
	t.memory.IncrementBy(ctx, key, w, n)
	return count, nil
}

func (t *TieredStore) Increment(ctx context.Context, key string, w Window) (int64, error) {
	return t.IncrementBy(ctx, key, w, 1)
}

// Get reads from memory first. On a miss it falls back to the persistent
// store and backfills memory.
func (t *TieredStore) Get(ctx context.Context, key string, w Window) (int64, error) {
	count, err := t.memory.Get(ctx, key, w)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return count, nil
	}

	count, err = t.persistent.Get(ctx, key, w)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		t.memory.mu.Lock()
		t.memory.buckets[key] = &bucket{count: count, bucketKey: w.BucketKey}
		t.memory.mu.Unlock()
	}
	return count, nil
}

func (t *TieredStore) Reset(ctx context.Context, key string) error {
	t.memory.Reset(ctx, key)
	return t.persistent.Reset(ctx, key)
}

func (t *TieredStore) Close() error {
	return t.persistent.Close()
}
