package eonet

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks for cache tests ---

type countingFetcher struct {
	calls  atomic.Int32
	events []domain.RawEvent
	errs   []error // returned in order, then nil
	gate   chan struct{}
}

func (m *countingFetcher) Fetch(_ context.Context, _ domain.Query) ([]domain.RawEvent, error) {
	n := int(m.calls.Add(1))
	if m.gate != nil {
		<-m.gate
	}
	if n <= len(m.errs) && m.errs[n-1] != nil {
		return nil, m.errs[n-1]
	}
	return m.events, nil
}

func sampleEvents() []domain.RawEvent {
	return []domain.RawEvent{{ID: "EONET_1", Title: "Fire"}}
}

func newTestCache(inner domain.Fetcher, clock clockwork.Clock) *CachedFetcher {
	return NewCachedFetcher(inner, DefaultCacheTTL, clock, testMetrics())
}

// --- CachedFetcher tests ---

func TestCachedFetcher_HitWithinTTL(t *testing.T) {
	inner := &countingFetcher{events: sampleEvents()}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC))
	cached := newTestCache(inner, clock)
	q := domain.DefaultQuery()

	first, err := cached.Fetch(context.Background(), q)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	second, err := cached.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load(), "should only call inner once")
	assert.Equal(t, first, second)
	assert.InDelta(t, 1, testutil.ToFloat64(cached.metrics.FetchCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(cached.metrics.FetchCache.WithLabelValues("miss")), 0)
}

func TestCachedFetcher_RefetchesAfterTTL(t *testing.T) {
	inner := &countingFetcher{events: sampleEvents()}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC))
	cached := newTestCache(inner, clock)
	q := domain.DefaultQuery()

	_, err := cached.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Len())

	clock.Advance(time.Hour)
	assert.Equal(t, 0, cached.Len(), "entry expires at exactly one TTL")

	_, err = cached.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, 1, cached.Len())
}

func TestCachedFetcher_DifferentQueriesMiss(t *testing.T) {
	inner := &countingFetcher{events: sampleEvents()}
	cached := newTestCache(inner, clockwork.NewFakeClock())

	_, _ = cached.Fetch(context.Background(), domain.Query{LookbackDays: 3650, Status: domain.StatusClosed})
	_, _ = cached.Fetch(context.Background(), domain.Query{LookbackDays: 3650, Status: domain.StatusOpen})
	_, _ = cached.Fetch(context.Background(), domain.Query{LookbackDays: 30, Status: domain.StatusClosed})
	_, _ = cached.Fetch(context.Background(), domain.Query{LookbackDays: 30, Status: domain.StatusClosed})

	assert.Equal(t, int32(3), inner.calls.Load())
	assert.Equal(t, 3, cached.Len())
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	fetchErr := &domain.FetchError{Query: domain.DefaultQuery(), Err: errors.New("connection reset")}
	inner := &countingFetcher{events: sampleEvents(), errs: []error{fetchErr}}
	cached := newTestCache(inner, clockwork.NewFakeClock())

	_, err := cached.Fetch(context.Background(), domain.DefaultQuery())
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 0, cached.Len())

	events, err := cached.Fetch(context.Background(), domain.DefaultQuery())
	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), events)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedFetcher_ConcurrentMissesShareOneFetch(t *testing.T) {
	inner := &countingFetcher{events: sampleEvents(), gate: make(chan struct{})}
	cached := newTestCache(inner, clockwork.NewFakeClock())

	const callers = 16
	var wg sync.WaitGroup
	results := make([][]domain.RawEvent, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cached.Fetch(context.Background(), domain.DefaultQuery())
		}(i)
	}

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.gate)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, sampleEvents(), results[i])
	}
}

func TestCachedFetcher_CancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &countingFetcher{events: sampleEvents(), gate: make(chan struct{})}
	cached := newTestCache(inner, clockwork.NewFakeClock())

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cached.Fetch(leaderCtx, domain.DefaultQuery())
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		events []domain.RawEvent
		err    error
	}
	follower := make(chan result, 1)
	go func() {
		events, err := cached.Fetch(context.Background(), domain.DefaultQuery())
		follower <- result{events, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-leaderErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the shared fetch")
	}

	close(inner.gate)
	res := <-follower
	require.NoError(t, res.err)
	assert.Equal(t, sampleEvents(), res.events)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, 1, cached.Len(), "shared result is cached after the leader left")
}

func TestCachedFetcher_NilClockUsesRealTime(t *testing.T) {
	inner := &countingFetcher{events: sampleEvents()}
	cached := NewCachedFetcher(inner, DefaultCacheTTL, nil, testMetrics())

	_, err := cached.Fetch(context.Background(), domain.DefaultQuery())
	require.NoError(t, err)
	_, err = cached.Fetch(context.Background(), domain.DefaultQuery())
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedFetcher_WithClient_IssuesOneUpstreamRequest(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, &hits)

	cached := newTestCache(testClient(srv.URL), clockwork.NewFakeClock())
	for range 3 {
		events, err := cached.Fetch(context.Background(), domain.DefaultQuery())
		require.NoError(t, err)
		assert.Len(t, events, 2)
	}

	assert.Equal(t, int32(1), hits.Load())
}
