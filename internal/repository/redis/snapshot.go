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

const snapshotKey = "storefront:catalog:snapshot"

// SnapshotStore implements repository.SnapshotStore using Redis.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore creates a Redis-backed snapshot store. A zero ttl keeps
// the snapshot until it is replaced.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

// SaveSnapshot writes snap as JSON.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored snapshot.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("snapshot", "catalog")
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
