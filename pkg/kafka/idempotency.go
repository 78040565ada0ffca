package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// IdempotencyStore records which event IDs have been handled.
// Implementations must be safe for concurrent use.
type IdempotencyStore interface {
	// Claim marks id as in progress and reports whether this caller is the
	// first to see it.
	Claim(ctx context.Context, id string) (bool, error)
	// Release forgets id so a redelivery can be handled again.
	Release(ctx context.Context, id string) error
}

// MemoryIdempotencyStore is an in-process IdempotencyStore whose entries
// expire after ttl.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryIdempotencyStore creates a store with the given TTL.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Claim implements IdempotencyStore.
func (s *MemoryIdempotencyStore) Claim(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if ts, ok := s.entries[id]; ok && now.Sub(ts) <= s.ttl {
		return false, nil
	}
	s.entries[id] = now
	return true, nil
}

// Release implements IdempotencyStore.
func (s *MemoryIdempotencyStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// IdempotentHandler skips events whose ID was already claimed. A failed
// handler releases its claim so the retry or a redelivery runs again. Store
// errors fall through to the handler.
func IdempotentHandler(store IdempotencyStore, inner Handler, logger *slog.Logger) Handler {
	return func(ctx context.Context, event *Event) error {
		if event.ID == "" {
			return inner(ctx, event)
		}

		first, err := store.Claim(ctx, event.ID)
		if err != nil {
			logger.WarnContext(ctx, "idempotency claim failed, processing anyway",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()),
			)
			return inner(ctx, event)
		}
		if !first {
			ConsumerMessagesDuplicate.WithLabelValues(event.Type).Inc()
			logger.DebugContext(ctx, "skipping duplicate event",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.Type),
			)
			return nil
		}

		if err := inner(ctx, event); err != nil {
			if relErr := store.Release(ctx, event.ID); relErr != nil {
				logger.WarnContext(ctx, "idempotency release failed",
					slog.String("event_id", event.ID),
					slog.String("error", relErr.Error()),
				)
			}
			return err
		}
		return nil
	}
}
