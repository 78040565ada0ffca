// Package catalog loads the product list from the CMS. It walks the fetch
// strategies in order, retries whole cycles, and when everything fails
// serves the last good snapshot or the embedded sample catalog.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog/fallback"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/repository"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

// Config tunes retries and staleness.
type Config struct {
	RetryDelay time.Duration
	MaxRetries int
	StaleAfter time.Duration
}

// DefaultConfig returns a 2s retry delay, 3 retry cycles and a 30s
// staleness window.
func DefaultConfig() Config {
	return Config{
		RetryDelay: 2 * time.Second,
		MaxRetries: 3,
		StaleAfter: 30 * time.Second,
	}
}

// EventPublisher announces load outcomes.
type EventPublisher interface {
	PublishRefreshed(ctx context.Context, res *domain.CatalogResult) error
	PublishDegraded(ctx context.Context, res *domain.CatalogResult) error
}

// Option customizes a Loader.
type Option func(*Loader)

// WithSnapshotStore persists every live result and reads it back when all
// strategies fail.
func WithSnapshotStore(s repository.SnapshotStore) Option {
	return func(l *Loader) { l.snapshots = s }
}

// WithEventPublisher publishes refreshed/degraded events after each commit.
func WithEventPublisher(p EventPublisher) Option {
	return func(l *Loader) { l.events = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// Loader is safe for concurrent use. Concurrent loads with the same mode
// share one execution; among different executions the most recently started
// one that finishes wins.
type Loader struct {
	cfg        Config
	strategies map[domain.Strategy]cms.StrategyFunc
	snapshots  repository.SnapshotStore
	events     EventPublisher
	logger     *slog.Logger
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error

	group   singleflight.Group
	started atomic.Uint64

	mu           sync.RWMutex
	current      *domain.CatalogResult
	lastLive     *domain.CatalogResult
	committedGen uint64
	lastSuccess  time.Time
}

// NewLoader creates a Loader over the given strategies. Missing strategies
// are skipped.
func NewLoader(strategies map[domain.Strategy]cms.StrategyFunc, cfg Config, logger *slog.Logger, opts ...Option) *Loader {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig().RetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultConfig().StaleAfter
	}

	l := &Loader{
		cfg:        cfg,
		strategies: strategies,
		logger:     logger,
		now:        time.Now,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Load fetches the catalog. It never fails: when no strategy produces data
// the result is degraded and carries domain.DegradedMessage.
func (l *Loader) Load(ctx context.Context, forceFresh bool) *domain.CatalogResult {
	key := "default"
	if forceFresh {
		key = "force"
	}
	v, _, _ := l.group.Do(key, func() (any, error) {
		return l.load(ctx, forceFresh), nil
	})
	return v.(*domain.CatalogResult)
}

// Current returns the committed result, loading one first if nothing has
// been committed yet.
func (l *Loader) Current(ctx context.Context) *domain.CatalogResult {
	l.mu.RLock()
	cur := l.current
	l.mu.RUnlock()
	if cur != nil {
		return cur
	}
	return l.Load(ctx, false)
}

// RefreshIfStale forces a fresh load when the last live fetch is older than
// StaleAfter (or never happened). It reports whether a load ran.
func (l *Loader) RefreshIfStale(ctx context.Context) bool {
	if !l.Stale() {
		return false
	}
	l.Load(ctx, true)
	return true
}

// Stale reports whether the last live fetch is older than StaleAfter.
func (l *Loader) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.staleLocked()
}

func (l *Loader) staleLocked() bool {
	return l.lastSuccess.IsZero() || l.now().Sub(l.lastSuccess) > l.cfg.StaleAfter
}

var strategyOrder = map[bool][]domain.Strategy{
	false: {domain.StrategyCached, domain.StrategyFresh, domain.StrategyRaw},
	true:  {domain.StrategyFresh, domain.StrategyRaw, domain.StrategyCached},
}

var retryOrder = []domain.Strategy{domain.StrategyFresh, domain.StrategyRaw}

func (l *Loader) load(ctx context.Context, forceFresh bool) *domain.CatalogResult {
	start := l.now()
	res := &domain.CatalogResult{Generation: l.started.Add(1)}
	log := l.logger.With(slog.Uint64("generation", res.Generation), slog.Bool("force_fresh", forceFresh))

	order := strategyOrder[forceFresh]
cycles:
	for cycle := 0; cycle <= l.cfg.MaxRetries; cycle++ {
		if cycle > 0 {
			log.InfoContext(ctx, "retrying catalog fetch",
				slog.Int("cycle", cycle),
				slog.Duration("delay", l.cfg.RetryDelay),
			)
			if err := l.sleep(ctx, l.cfg.RetryDelay); err != nil {
				log.WarnContext(ctx, "catalog retry abandoned", slog.String("error", err.Error()))
				break cycles
			}
			order = retryOrder
		}

		for _, s := range order {
			fn, ok := l.strategies[s]
			if !ok {
				continue
			}
			products, attempt := l.attempt(ctx, s, cycle, fn)
			res.Attempts = append(res.Attempts, attempt)
			if attempt.OK() {
				res.Products = products
				res.Source = domain.SourceLive
				res.Strategy = s
				res.FetchedAt = l.now()
				return l.finish(ctx, res, start, log)
			}
			log.WarnContext(ctx, "catalog strategy failed",
				slog.String("strategy", string(s)),
				slog.Int("cycle", cycle),
				slog.String("error", attempt.Err.Error()),
			)
		}
	}

	l.degrade(ctx, res, log)
	return l.finish(ctx, res, start, log)
}

func (l *Loader) attempt(ctx context.Context, s domain.Strategy, cycle int, fn cms.StrategyFunc) ([]domain.Product, domain.FetchAttempt) {
	a := domain.FetchAttempt{Strategy: s, Cycle: cycle, StartedAt: l.now()}
	defer func() {
		outcome := "ok"
		if a.Err != nil {
			outcome = "error"
		}
		fetchAttempts.WithLabelValues(string(s), outcome).Inc()
	}()

	raw, err := fn(ctx, cms.ProductsList())
	a.Duration = l.now().Sub(a.StartedAt)
	if err != nil {
		a.Err = err
		return nil, a
	}

	products, skipped, err := cms.DecodeProducts(raw)
	if err != nil {
		a.Err = err
		return nil, a
	}
	if skipped > 0 {
		l.logger.WarnContext(ctx, "skipped malformed products",
			slog.String("strategy", string(s)),
			slog.Int("skipped", skipped),
		)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, a
}

// degrade fills res from the snapshot store, the last live result held in
// memory, or the embedded sample catalog, in that order.
func (l *Loader) degrade(ctx context.Context, res *domain.CatalogResult, log *slog.Logger) {
	res.Error = domain.DegradedMessage

	if snap := l.loadSnapshot(ctx, log); snap != nil {
		res.Products = snap.Products
		res.Source = domain.SourceStale
		res.Strategy = snap.Strategy
		res.FetchedAt = snap.FetchedAt
		return
	}

	res.Products = fallback.Products()
	res.Source = domain.SourceFallback
	res.FetchedAt = l.now()
}

func (l *Loader) loadSnapshot(ctx context.Context, log *slog.Logger) *domain.Snapshot {
	if l.snapshots != nil {
		// The retry loop may have ended on a cancelled context.
		snap, err := l.snapshots.LoadSnapshot(context.WithoutCancel(ctx))
		if err == nil {
			return snap
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "failed to read catalog snapshot", slog.String("error", err.Error()))
		}
	}

	l.mu.RLock()
	live := l.lastLive
	l.mu.RUnlock()
	if live == nil {
		return nil
	}
	return &domain.Snapshot{Products: live.Products, Strategy: live.Strategy, FetchedAt: live.FetchedAt}
}

func (l *Loader) finish(ctx context.Context, res *domain.CatalogResult, start time.Time, log *slog.Logger) *domain.CatalogResult {
	loadsTotal.WithLabelValues(string(res.Source)).Inc()
	loadDuration.WithLabelValues(string(res.Source)).Observe(l.now().Sub(start).Seconds())

	if !l.commit(res) {
		l.mu.RLock()
		cur := l.current
		l.mu.RUnlock()
		log.InfoContext(ctx, "catalog load superseded by a newer load",
			slog.Uint64("committed_generation", cur.Generation),
		)
		return cur
	}

	sideCtx := context.WithoutCancel(ctx)
	if res.Degraded() {
		log.WarnContext(ctx, "serving degraded catalog",
			slog.String("source", string(res.Source)),
			slog.Int("attempts", len(res.Attempts)),
			slog.Int("products", len(res.Products)),
		)
		if l.events != nil {
			if err := l.events.PublishDegraded(sideCtx, res); err != nil {
				log.WarnContext(ctx, "failed to publish catalog.degraded", slog.String("error", err.Error()))
			}
		}
		return res
	}

	log.InfoContext(ctx, "catalog loaded",
		slog.String("strategy", string(res.Strategy)),
		slog.Int("products", len(res.Products)),
		slog.Int("attempts", len(res.Attempts)),
	)
	if l.snapshots != nil {
		snap := &domain.Snapshot{Products: res.Products, Strategy: res.Strategy, FetchedAt: res.FetchedAt}
		if err := l.snapshots.SaveSnapshot(sideCtx, snap); err != nil {
			log.WarnContext(ctx, "failed to save catalog snapshot", slog.String("error", err.Error()))
		}
	}
	if l.events != nil {
		if err := l.events.PublishRefreshed(sideCtx, res); err != nil {
			log.WarnContext(ctx, "failed to publish catalog.refreshed", slog.String("error", err.Error()))
		}
	}
	return res
}

// commit installs res unless a later-started load already committed.
func (l *Loader) commit(res *domain.CatalogResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.Generation <= l.committedGen {
		return false
	}
	l.committedGen = res.Generation
	l.current = res
	if !res.Degraded() {
		l.lastLive = res
		l.lastSuccess = res.FetchedAt
	}
	committedGeneration.Set(float64(res.Generation))
	return true
}
