package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/repository"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

var (
	_ repository.SnapshotStore = (*SnapshotStore)(nil)
	_ repository.PageCache     = (*PageCache)(nil)
)

func TestSnapshotStore(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	_, err := store.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	products := []domain.Product{{ID: "1", Title: "Premium Manufacturing Unit A1"}}
	require.NoError(t, store.SaveSnapshot(ctx, &domain.Snapshot{Products: products, Strategy: domain.StrategyCached}))

	// Mutating the caller's slice must not leak into the store.
	products[0].Title = "changed"

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Premium Manufacturing Unit A1", got.Products[0].Title)
	assert.Equal(t, domain.StrategyCached, got.Strategy)
}

func TestPageCache_Expiry(t *testing.T) {
	cache := NewPageCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.SetPage(ctx, domain.PageAbout, json.RawMessage(`{"title":"About"}`), time.Minute))
	require.NoError(t, cache.SetPage(ctx, domain.PageContact, json.RawMessage(`{"title":"Contact"}`), 0))

	got, err := cache.GetPage(ctx, domain.PageAbout)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"About"}`, string(got))

	now = now.Add(time.Minute)
	_, err = cache.GetPage(ctx, domain.PageAbout)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = cache.GetPage(ctx, domain.PageContact)
	assert.NoError(t, err)

	_, err = cache.GetPage(ctx, domain.PageHome)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
