package mem

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Remember(ctx context.Context, key, resourceID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, keyPrefix+key, resourceID, ttl).Result()
}

func (s *RedisStore) Complete(ctx context.Context, key, resourceID string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, resourceID, ttl).Err()
}

func (s *RedisStore) Forget(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
