package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/repository/memory"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const twoProducts = `[
	{"_id":"a","title":"Alpha","slug":{"current":"alpha"},"price":100,"category":"Premium Series"},
	{"_id":"b","title":"Beta","slug":{"current":"beta"},"price":200,"category":"Premium Series","featured":true}
]`

// --- Fakes ---

type callLog struct {
	mu    sync.Mutex
	calls []domain.Strategy
}

func (c *callLog) record(s domain.Strategy) {
	c.mu.Lock()
	c.calls = append(c.calls, s)
	c.mu.Unlock()
}

func (c *callLog) all() []domain.Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Strategy(nil), c.calls...)
}

type response struct {
	body string
	err  error
}

// strategies builds a strategy set that answers from resp, recording every
// call. Strategies missing from resp fail.
func strategies(log *callLog, resp map[domain.Strategy]response) map[domain.Strategy]cms.StrategyFunc {
	out := make(map[domain.Strategy]cms.StrategyFunc)
	for _, s := range []domain.Strategy{domain.StrategyCached, domain.StrategyFresh, domain.StrategyRaw} {
		out[s] = func(_ context.Context, q cms.Query) (json.RawMessage, error) {
			log.record(s)
			if q.GROQ != cms.ProductsListQuery {
				return nil, errors.New("unexpected query")
			}
			r, ok := resp[s]
			if !ok {
				return nil, errors.New(string(s) + " unavailable")
			}
			if r.err != nil {
				return nil, r.err
			}
			return json.RawMessage(r.body), nil
		}
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingEvents struct {
	mu        sync.Mutex
	refreshed []*domain.CatalogResult
	degraded  []*domain.CatalogResult
}

func (e *recordingEvents) PublishRefreshed(_ context.Context, res *domain.CatalogResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshed = append(e.refreshed, res)
	return nil
}

func (e *recordingEvents) PublishDegraded(_ context.Context, res *domain.CatalogResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.degraded = append(e.degraded, res)
	return errors.New("broker down")
}

type testLoader struct {
	*Loader
	clock  *fakeClock
	sleeps []time.Duration
	events *recordingEvents
}

func newTestLoader(t *testing.T, strats map[domain.Strategy]cms.StrategyFunc, opts ...Option) *testLoader {
	t.Helper()
	tl := &testLoader{clock: newFakeClock(), events: &recordingEvents{}}
	opts = append([]Option{WithClock(tl.clock.Now), WithEventPublisher(tl.events)}, opts...)
	tl.Loader = NewLoader(strats, DefaultConfig(), logger.Discard(), opts...)
	tl.sleep = func(ctx context.Context, d time.Duration) error {
		tl.sleeps = append(tl.sleeps, d)
		return ctx.Err()
	}
	return tl
}

// ---------------------------------------------------------------------------
// Strategy order
// ---------------------------------------------------------------------------

func TestLoad_CachedFirst(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: twoProducts},
	}))

	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.SourceLive, res.Source)
	assert.Equal(t, domain.StrategyCached, res.Strategy)
	assert.Empty(t, res.Error)
	assert.Len(t, res.Products, 2)
	assert.Equal(t, uint64(1), res.Generation)
	assert.Equal(t, []domain.Strategy{domain.StrategyCached}, calls.all())
	require.Len(t, res.Attempts, 1)
	assert.True(t, res.Attempts[0].OK())
	assert.Len(t, l.events.refreshed, 1)
}

func TestLoad_ForceFreshOrder(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: twoProducts},
	}))

	res := l.Load(context.Background(), true)

	assert.Equal(t, domain.StrategyCached, res.Strategy)
	assert.Equal(t, []domain.Strategy{domain.StrategyFresh, domain.StrategyRaw, domain.StrategyCached}, calls.all())
	assert.Empty(t, l.sleeps)
}

func TestLoad_NullResultFallsThrough(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: `null`},
		domain.StrategyFresh:  {body: `{"not":"an array"}`},
		domain.StrategyRaw:    {body: twoProducts},
	}))

	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.StrategyRaw, res.Strategy)
	require.Len(t, res.Attempts, 3)
	assert.ErrorIs(t, res.Attempts[0].Err, cms.ErrEmptyResult)
	assert.Error(t, res.Attempts[1].Err)
	assert.True(t, res.Attempts[2].OK())
}

func TestLoad_EmptyArrayIsSuccess(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: `[]`},
	}))

	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.SourceLive, res.Source)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	assert.Empty(t, res.Error)
}

func TestLoad_MalformedItemsSkipped(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: `[{"_id":"a","title":"Alpha"}, 42, {"_id":"b","title":"Beta"}]`},
	}))

	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.SourceLive, res.Source)
	assert.Len(t, res.Products, 2)
}

// ---------------------------------------------------------------------------
// Retries and degradation
// ---------------------------------------------------------------------------

func TestLoad_RetriesThenSucceeds(t *testing.T) {
	var freshCalls atomic.Int32
	calls := &callLog{}
	strats := strategies(calls, nil)
	strats[domain.StrategyFresh] = func(_ context.Context, _ cms.Query) (json.RawMessage, error) {
		calls.record(domain.StrategyFresh)
		if freshCalls.Add(1) < 3 {
			return nil, errors.New("503")
		}
		return json.RawMessage(twoProducts), nil
	}
	l := newTestLoader(t, strats)

	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.SourceLive, res.Source)
	assert.Equal(t, domain.StrategyFresh, res.Strategy)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, l.sleeps)
	assert.Equal(t, []domain.Strategy{
		domain.StrategyCached, domain.StrategyFresh, domain.StrategyRaw, // cycle 0
		domain.StrategyFresh, domain.StrategyRaw, // cycle 1
		domain.StrategyFresh, // cycle 2
	}, calls.all())
	assert.Equal(t, 2, res.Attempts[len(res.Attempts)-1].Cycle)
}

func TestLoad_ExhaustedFallsBackToSampleCatalog(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, nil))

	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.SourceFallback, res.Source)
	assert.Equal(t, domain.DegradedMessage, res.Error)
	assert.True(t, res.Degraded())
	require.Len(t, res.Products, 6)
	assert.Equal(t, "Premium Manufacturing Unit A1", res.Products[0].Title)

	// One full cycle plus three retry cycles without the cached strategy.
	assert.Len(t, calls.all(), 3+3*2)
	assert.Len(t, res.Attempts, 9)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}, l.sleeps)

	assert.Len(t, l.events.degraded, 1)
	assert.Empty(t, l.events.refreshed)
	assert.True(t, l.Stale())
}

func TestLoad_ExhaustedUsesSnapshot(t *testing.T) {
	store := memory.NewSnapshotStore()
	calls := &callLog{}
	ok := true
	strats := strategies(calls, nil)
	strats[domain.StrategyCached] = func(_ context.Context, _ cms.Query) (json.RawMessage, error) {
		if ok {
			return json.RawMessage(twoProducts), nil
		}
		return nil, errors.New("down")
	}
	l := newTestLoader(t, strats, WithSnapshotStore(store))

	first := l.Load(context.Background(), false)
	require.Equal(t, domain.SourceLive, first.Source)

	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Products, 2)
	assert.Equal(t, domain.StrategyCached, snap.Strategy)

	ok = false
	l.clock.Advance(time.Minute)
	second := l.Load(context.Background(), true)

	assert.Equal(t, domain.SourceStale, second.Source)
	assert.Equal(t, domain.DegradedMessage, second.Error)
	assert.Equal(t, domain.StrategyCached, second.Strategy)
	assert.Len(t, second.Products, 2)
	assert.True(t, first.FetchedAt.Equal(second.FetchedAt))
	assert.Equal(t, uint64(2), second.Generation)
}

func TestLoad_ExhaustedWithoutStoreUsesLastLiveResult(t *testing.T) {
	ok := true
	strats := strategies(&callLog{}, nil)
	strats[domain.StrategyCached] = func(_ context.Context, _ cms.Query) (json.RawMessage, error) {
		if ok {
			return json.RawMessage(twoProducts), nil
		}
		return nil, errors.New("down")
	}
	l := newTestLoader(t, strats)

	require.Equal(t, domain.SourceLive, l.Load(context.Background(), false).Source)
	ok = false
	res := l.Load(context.Background(), false)

	assert.Equal(t, domain.SourceStale, res.Source)
	assert.Len(t, res.Products, 2)
}

func TestLoad_CancelDuringRetryDegradesImmediately(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := l.Load(ctx, false)

	assert.Equal(t, domain.SourceFallback, res.Source)
	assert.Len(t, l.sleeps, 1)
	assert.Len(t, calls.all(), 3)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

// ---------------------------------------------------------------------------
// Staleness
// ---------------------------------------------------------------------------

func TestRefreshIfStale(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: twoProducts},
		domain.StrategyFresh:  {body: twoProducts},
	}))
	ctx := context.Background()

	assert.True(t, l.Stale())
	assert.True(t, l.RefreshIfStale(ctx))
	assert.Equal(t, []domain.Strategy{domain.StrategyFresh}, calls.all())

	l.clock.Advance(30 * time.Second)
	assert.False(t, l.RefreshIfStale(ctx))

	l.clock.Advance(time.Second)
	assert.True(t, l.RefreshIfStale(ctx))
	assert.Len(t, calls.all(), 2)

	st := l.Status()
	assert.True(t, st.Loaded)
	assert.False(t, st.Stale)
	assert.Equal(t, uint64(2), st.Generation)
	assert.Equal(t, 2, st.ProductCount)
	assert.Equal(t, l.clock.Now(), st.LastSuccess)
}

func TestCurrent_LoadsOnce(t *testing.T) {
	calls := &callLog{}
	l := newTestLoader(t, strategies(calls, map[domain.Strategy]response{
		domain.StrategyCached: {body: twoProducts},
	}))

	first := l.Current(context.Background())
	second := l.Current(context.Background())

	assert.Same(t, first, second)
	assert.Len(t, calls.all(), 1)
}

func TestStatus_BeforeLoad(t *testing.T) {
	l := newTestLoader(t, strategies(&callLog{}, nil))
	st := l.Status()
	assert.False(t, st.Loaded)
	assert.True(t, st.Stale)
	assert.Zero(t, st.Generation)
	assert.Equal(t, 30*time.Second, st.StaleAfter)
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

func TestLoad_LatestStartedWins(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	strats := strategies(&callLog{}, nil)
	strats[domain.StrategyCached] = func(ctx context.Context, _ cms.Query) (json.RawMessage, error) {
		close(entered)
		<-release
		return json.RawMessage(`[{"_id":"old","title":"Old"}]`), nil
	}
	strats[domain.StrategyFresh] = func(_ context.Context, _ cms.Query) (json.RawMessage, error) {
		return json.RawMessage(`[{"_id":"new","title":"New"}]`), nil
	}
	l := newTestLoader(t, strats)

	done := make(chan *domain.CatalogResult)
	go func() { done <- l.Load(context.Background(), false) }()
	<-entered

	newer := l.Load(context.Background(), true)
	require.Equal(t, uint64(2), newer.Generation)

	close(release)
	older := <-done

	assert.Same(t, newer, older)
	assert.Equal(t, "new", l.Current(context.Background()).Products[0].ID)
	assert.Len(t, l.events.refreshed, 1)
}

func TestLoad_ConcurrentCallsShareOneFetch(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	strats := strategies(&callLog{}, nil)
	strats[domain.StrategyCached] = func(_ context.Context, _ cms.Query) (json.RawMessage, error) {
		fetches.Add(1)
		<-release
		return json.RawMessage(twoProducts), nil
	}
	l := newTestLoader(t, strats)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*domain.CatalogResult, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = l.Load(context.Background(), false)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
