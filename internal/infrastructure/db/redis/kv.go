package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// KVStore implements ports.KVStore on a Redis client. Records have no TTL:
// session and onboarding state must survive until explicitly removed.
type KVStore struct {
	client *redis.Client
}

// NewKVStore creates a KVStore wrapping the given Redis client.
func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{client: client}
}

// Get returns the value stored under key, or ports.ErrKeyNotFound.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key, replacing any previous value.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Deleting an absent key succeeds.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	return nil
}
