// Package memory provides in-process implementations of the repository
// interfaces for development and tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

// SnapshotStore keeps the snapshot in memory.
type SnapshotStore struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// SaveSnapshot stores a copy of snap.
func (s *SnapshotStore) SaveSnapshot(_ context.Context, snap *domain.Snapshot) error {
	cp := *snap
	cp.Products = append([]domain.Product(nil), snap.Products...)

	s.mu.Lock()
	s.snap = &cp
	s.mu.Unlock()
	return nil
}

// LoadSnapshot returns a copy of the stored snapshot.
func (s *SnapshotStore) LoadSnapshot(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return nil, apperrors.NotFound("snapshot", "catalog")
	}
	cp := *s.snap
	cp.Products = append([]domain.Product(nil), s.snap.Products...)
	return &cp, nil
}

type pageEntry struct {
	doc       json.RawMessage
	expiresAt time.Time
}

// PageCache is an in-memory page cache with per-entry expiry.
type PageCache struct {
	mu      sync.Mutex
	entries map[domain.PageKind]pageEntry
	now     func() time.Time
}

// NewPageCache creates an empty page cache.
func NewPageCache() *PageCache {
	return &PageCache{
		entries: make(map[domain.PageKind]pageEntry),
		now:     time.Now,
	}
}

// GetPage returns the cached document for kind if it has not expired.
func (c *PageCache) GetPage(_ context.Context, kind domain.PageKind) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[kind]
	if !ok {
		return nil, apperrors.NotFound("page", string(kind))
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, kind)
		return nil, apperrors.NotFound("page", string(kind))
	}
	return append(json.RawMessage(nil), e.doc...), nil
}

// SetPage stores doc for ttl. A zero ttl never expires.
func (c *PageCache) SetPage(_ context.Context, kind domain.PageKind, doc json.RawMessage, ttl time.Duration) error {
	e := pageEntry{doc: append(json.RawMessage(nil), doc...)}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[kind] = e
	return nil
}

// DeletePage removes the cached document for kind.
func (c *PageCache) DeletePage(_ context.Context, kind domain.PageKind) error {
	c.mu.Lock()
	delete(c.entries, kind)
	c.mu.Unlock()
	return nil
}
