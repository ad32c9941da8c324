package eonet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a fetched result is served before refetching.
const DefaultCacheTTL = time.Hour

// CachedFetcher wraps a Fetcher with an in-memory TTL cache keyed by query.
// Concurrent misses for the same query share a single upstream call, and
// failed fetches are never cached.
type CachedFetcher struct {
	inner   domain.Fetcher
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu      sync.RWMutex
	entries map[domain.Query]cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	fetchedAt time.Time
	events    []domain.RawEvent
}

// NewCachedFetcher creates a cache decorator around a fetcher. A nil clock
// uses real time.
func NewCachedFetcher(inner domain.Fetcher, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedFetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedFetcher{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		entries: make(map[domain.Query]cacheEntry),
	}
}

// Fetch returns the cached events for q while they are younger than the TTL,
// otherwise fetches them from the inner fetcher.
func (c *CachedFetcher) Fetch(ctx context.Context, q domain.Query) ([]domain.RawEvent, error) {
	if events, ok := c.get(q); ok {
		c.metrics.FetchCache.WithLabelValues("hit").Inc()
		return events, nil
	}
	c.metrics.FetchCache.WithLabelValues("miss").Inc()

	// The shared call outlives any single caller; each caller stops waiting
	// when its own context ends. The client timeout bounds the upstream call.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(cacheKey(q), func() (any, error) {
		// Another caller may have refreshed the entry while we waited.
		if events, ok := c.get(q); ok {
			return events, nil
		}
		events, err := c.inner.Fetch(shared, q)
		if err != nil {
			return nil, err
		}
		c.put(q, events)
		return events, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.RawEvent), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports the number of live (unexpired) entries.
func (c *CachedFetcher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.clock.Now()
	n := 0
	for _, e := range c.entries {
		if c.fresh(e, now) {
			n++
		}
	}
	return n
}

func (c *CachedFetcher) get(q domain.Query) ([]domain.RawEvent, bool) {
	c.mu.RLock()
	e, ok := c.entries[q]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.fresh(e, c.clock.Now()) {
		c.evict(q, e.fetchedAt)
		return nil, false
	}
	return e.events, true
}

func (c *CachedFetcher) put(q domain.Query, events []domain.RawEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[q] = cacheEntry{fetchedAt: c.clock.Now(), events: events}
}

// evict removes an expired entry unless it was refreshed in the meantime.
func (c *CachedFetcher) evict(q domain.Query, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[q]; ok && e.fetchedAt.Equal(fetchedAt) {
		delete(c.entries, q)
	}
}

func (c *CachedFetcher) fresh(e cacheEntry, now time.Time) bool {
	return now.Sub(e.fetchedAt) < c.ttl
}

func cacheKey(q domain.Query) string {
	return fmt.Sprintf("%d|%s", q.LookbackDays, q.Status)
}
