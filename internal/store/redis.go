package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a go-redis client.
type RedisStore struct {
	client goredis.UniversalClient
}

// NewRedisStore wraps an existing client. The caller owns the client.
func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// GetMany returns the values of keys in order; missing keys yield nil entries.
func (s *RedisStore) GetMany(ctx context.Context, keys ...string) ([]*string, error) {
	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}
	out := make([]*string, len(raw))
	for i, v := range raw {
		if str, ok := v.(string); ok {
			out[i] = &str
		}
	}
	return out, nil
}

// SetMany stores every key/value pair of values without expiry.
func (s *RedisStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	if err := s.client.MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("mset: %w", err)
	}
	return nil
}

func (s *RedisStore) GetList(ctx context.Context, key string) ([]string, error) {
	values, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return values, nil
}

func (s *RedisStore) SetList(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	if err := s.client.LPush(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ BulkStore = (*RedisStore)(nil)
