package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinyurl-history/internal/history"
)

// RedisStore is a Redis implementation of history.Backend.
type RedisStore struct {
	client *redis.Client
	prefix string // "history:" + collection key -> serialized history
}

// NewRedisStore creates a new Redis-backed history backend.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "history:",
	}
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, history.ErrNotFound
		}

		return nil, err
	}

	return value, nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ history.Backend = (*RedisStore)(nil)
