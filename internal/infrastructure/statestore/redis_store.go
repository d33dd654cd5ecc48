package statestore

import (
	"context"
	"fmt"
	"time"

	"shopify-embedded-app/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shopify:oauth_state:"

// RedisStore keeps OAuth state nonces in Redis with a TTL
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis backed state store
func NewRedisStore(client *redis.Client) ports.StateStore {
	return &RedisStore{client: client}
}

// Put binds state to shop until ttl elapses
func (s *RedisStore) Put(ctx context.Context, state string, shop string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+state, shop, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// Consume atomically reads and removes the state
func (s *RedisStore) Consume(ctx context.Context, state string) (string, error) {
	shop, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return shop, nil
}
