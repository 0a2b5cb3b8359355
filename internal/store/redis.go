package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/cfohelper/internal/source"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "cfohelper:baseline:"
	// DefaultRedisTTL bounds how long a shared parse is kept.
	DefaultRedisTTL = 24 * time.Hour
)

// RedisCache shares parsed baselines between hosts through Redis. Entries
// are JSON-encoded records keyed by source path.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at addr and verifies it answers.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{client: rdb, ctx: ctx, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Lookup returns the shared record for id.Path when it matches the current
// file version.
func (r *RedisCache) Lookup(id source.Identity) (*source.Record, bool, error) {
	val, err := r.client.Get(r.ctx, redisKey(id.Path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rec, err := decodeRecord(val)
	if err != nil {
		return nil, false, err
	}
	if !rec.Identity.Same(id) {
		return nil, false, nil
	}
	return rec, true, nil
}

// Save stores rec under its source path with the cache TTL.
func (r *RedisCache) Save(rec *source.Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, redisKey(rec.Identity.Path), data, r.ttl).Err()
}

// Delete removes the shared entry for path.
func (r *RedisCache) Delete(path string) error {
	return r.client.Del(r.ctx, redisKey(path)).Err()
}

// Count returns the number of shared baselines under the cfohelper prefix.
func (r *RedisCache) Count() (int, error) {
	n := 0
	iter := r.client.Scan(r.ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(r.ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return n, nil
}

func redisKey(path string) string {
	return redisKeyPrefix + path
}

func encodeRecord(rec *source.Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*source.Record, error) {
	var rec source.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding cached record: %w", err)
	}
	return &rec, nil
}
