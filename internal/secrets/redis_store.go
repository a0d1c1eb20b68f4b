package secrets

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"myshop/internal/errors"
)

const keyPrefix = "secret:"

// RedisStore reads secrets from Redis under the "secret:" key namespace.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+name).Result()
	if err == redis.Nil {
		return "", errors.NewNotFoundError(fmt.Sprintf("secret %s not found", name))
	}
	if err != nil {
		return "", fmt.Errorf("fetching secret %s: %w", name, err)
	}
	return value, nil
}
