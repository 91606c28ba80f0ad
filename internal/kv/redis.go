package kv

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store. Keys are stored as-is (they already
// carry the "bakkie:" namespace) with no TTL; the store is the session's
// durable state, not a cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
