package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "storefront:event:"

// IdempotencyStore implements kafka.IdempotencyStore with SET NX so that
// every replica of the service shares one view of processed events.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a store whose claims expire after ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim marks id as processed and reports whether this caller got it first.
func (s *IdempotencyStore) Claim(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, eventKeyPrefix+id, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis claim event: %w", err)
	}
	return ok, nil
}

// Release forgets a claim so the event can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, eventKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis release event: %w", err)
	}
	return nil
}
