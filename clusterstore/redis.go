package clusterstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore is a Store backed by Redis, shared across every process in
// the cluster — this is the backend that gives ClusterMode its meaning
// (SPEC_FULL.md §4.4). Each key is a Redis hash with fields "count" and
// "bucket_key"; a TTL equal to the window duration is set for automatic
// expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// incrementScript atomically adds n to a counter, resetting it when the
// bucket key changes.
//
// KEYS[1] = counter key
// ARGV[1] = bucket_key
// ARGV[2] = window duration in seconds (for TTL)
// ARGV[3] = increment amount
var incrementScript = redis.NewScript(`
local key = KEYS[1]
local bucket_key = ARGV[1]
local ttl = tonumber(ARGV[2])
local n = tonumber(ARGV[3])

local current_bucket = redis.call("HGET", key, "bucket_key")
if current_bucket ~= bucket_key then
    redis.call("HSET", key, "count", tostring(n), "bucket_key", bucket_key)
    if ttl > 0 then
        redis.call("EXPIRE", key, ttl)
    end
    return n
end

local count = redis.call("HINCRBY", key, "count", n)
return count
`)

func (r *RedisStore) IncrementBy(ctx context.Context, key string, w Window, n int64) (int64, error) {
	ttl := int64(w.Duration.Seconds())
	result, err := incrementScript.Run(ctx, r.client, []string{redisKey(key)}, w.BucketKey, ttl, n).Int64()
	if err != nil {
		return 0, fmt.Errorf("clusterstore/redis: increment: %w", err)
	}
	return result, nil
}

func (r *RedisStore) Increment(ctx context.Context, key string, w Window) (int64, error) {
	return r.IncrementBy(ctx, key, w, 1)
}

func (r *RedisStore) Get(ctx context.Context, key string, w Window) (int64, error) {
	vals, err := r.client.HGetAll(ctx, redisKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("clusterstore/redis: get: %w", err)
	}
	if len(vals) == 0 {
		return 0, nil
	}
	if vals["bucket_key"] != w.BucketKey {
		return 0, nil
	}
	count, err := strconv.ParseInt(vals["count"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("clusterstore/redis: parse count: %w", err)
	}
	return count, nil
}

func (r *RedisStore) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKey(key)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisKey(key string) string {
	return "flowguard:" + key
}
