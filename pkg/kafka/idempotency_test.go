package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore_ClaimOnce(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	ctx := context.Background()

	first, err := store.Claim(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.Claim(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, again)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	first, _ := store.Claim(context.Background(), "evt-1")
	require.True(t, first)

	now = now.Add(2 * time.Minute)
	again, _ := store.Claim(context.Background(), "evt-1")
	assert.True(t, again, "expired claims can be taken again")
}

func TestMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	ctx := context.Background()

	_, _ = store.Claim(ctx, "evt-1")
	require.NoError(t, store.Release(ctx, "evt-1"))

	first, _ := store.Claim(ctx, "evt-1")
	assert.True(t, first)
}

func TestMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Claim(context.Background(), "evt-race"); ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners)
}

func testEvent(id string) *Event {
	return &Event{ID: id, Type: "cms.document.published", Subject: "doc"}
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	var calls int32
	h := IdempotentHandler(NewMemoryIdempotencyStore(time.Minute), func(ctx context.Context, e *Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, testLogger())

	require.NoError(t, h(context.Background(), testEvent("evt-1")))
	require.NoError(t, h(context.Background(), testEvent("evt-1")))
	require.NoError(t, h(context.Background(), testEvent("evt-2")))
	assert.Equal(t, int32(2), calls)
}

func TestIdempotentHandler_EmptyIDPassesThrough(t *testing.T) {
	var calls int32
	h := IdempotentHandler(NewMemoryIdempotencyStore(time.Minute), func(ctx context.Context, e *Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, testLogger())

	_ = h(context.Background(), testEvent(""))
	_ = h(context.Background(), testEvent(""))
	assert.Equal(t, int32(2), calls)
}

func TestIdempotentHandler_FailureReleasesClaim(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	fail := true
	var calls int32
	h := IdempotentHandler(store, func(ctx context.Context, e *Event) error {
		atomic.AddInt32(&calls, 1)
		if fail {
			return errors.New("boom")
		}
		return nil
	}, testLogger())

	require.Error(t, h(context.Background(), testEvent("evt-1")))
	fail = false
	require.NoError(t, h(context.Background(), testEvent("evt-1")))
	assert.Equal(t, int32(2), calls)
}

type failingIdempotencyStore struct{}

func (failingIdempotencyStore) Claim(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingIdempotencyStore) Release(context.Context, string) error { return nil }

func TestIdempotentHandler_StoreErrorProcessesAnyway(t *testing.T) {
	var calls int32
	h := IdempotentHandler(failingIdempotencyStore{}, func(ctx context.Context, e *Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, testLogger())

	require.NoError(t, h(context.Background(), testEvent("evt-1")))
	assert.Equal(t, int32(1), calls)
}
