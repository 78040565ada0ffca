package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

// SnapshotStore keeps the last-known-good product list.
type SnapshotStore interface {
	// SaveSnapshot replaces the stored snapshot.
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error

	// LoadSnapshot returns the stored snapshot, or a NotFound AppError when
	// there is none.
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

// PageCache holds raw page documents between CMS fetches.
type PageCache interface {
	// GetPage returns the cached document, or a NotFound AppError on a miss.
	GetPage(ctx context.Context, kind domain.PageKind) (json.RawMessage, error)

	// SetPage stores a document for ttl.
	SetPage(ctx context.Context, kind domain.PageKind, doc json.RawMessage, ttl time.Duration) error

	// DeletePage drops a cached document. Deleting a missing entry is not an
	// error.
	DeletePage(ctx context.Context, kind domain.PageKind) error
}
