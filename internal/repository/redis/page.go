package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

const pageKeyPrefix = "storefront:page:"

// PageCache implements repository.PageCache using Redis.
type PageCache struct {
	client *redis.Client
}

// NewPageCache creates a Redis-backed page cache.
func NewPageCache(client *redis.Client) *PageCache {
	return &PageCache{client: client}
}

// GetPage returns the cached document for kind.
func (c *PageCache) GetPage(ctx context.Context, kind domain.PageKind) (json.RawMessage, error) {
	data, err := c.client.Get(ctx, pageKeyPrefix+string(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("page", string(kind))
		}
		return nil, fmt.Errorf("redis get page: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetPage stores doc under kind for ttl.
func (c *PageCache) SetPage(ctx context.Context, kind domain.PageKind, doc json.RawMessage, ttl time.Duration) error {
	if err := c.client.Set(ctx, pageKeyPrefix+string(kind), []byte(doc), ttl).Err(); err != nil {
		return fmt.Errorf("redis set page: %w", err)
	}
	return nil
}

// DeletePage removes the cached document for kind.
func (c *PageCache) DeletePage(ctx context.Context, kind domain.PageKind) error {
	if err := c.client.Del(ctx, pageKeyPrefix+string(kind)).Err(); err != nil {
		return fmt.Errorf("redis delete page: %w", err)
	}
	return nil
}
