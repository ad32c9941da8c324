package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
)

// Pipeline turns upstream events into the dashboard's event table.
type Pipeline struct {
	fetcher domain.Fetcher
	query   domain.Query
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	mu      sync.Mutex
	lastRaw []domain.RawEvent
	last    domain.Dataset
}

// New creates a Pipeline that loads q through fetcher. The fetcher is
// normally an eonet.CachedFetcher so repeated loads stay local.
func New(fetcher domain.Fetcher, q domain.Query, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		query:   q,
		logger:  logger,
		metrics: metrics,
	}
}

// Query returns the upstream query this pipeline loads.
func (p *Pipeline) Query() domain.Query { return p.query }

// CheckReadiness returns nil once a load has succeeded, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("event table has not been loaded yet")
	}
	return nil
}

// Load fetches and normalizes the configured query. A fetch failure is
// reported in Dataset.Err rather than returned, so callers can always render.
func (p *Pipeline) Load(ctx context.Context) domain.Dataset {
	raw, err := p.fetcher.Fetch(ctx, p.query)
	if err != nil {
		p.logger.Error("fetch events failed",
			"error", err,
			"days", p.query.LookbackDays,
			"status", p.query.Status,
		)
		return domain.Dataset{Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready.Load() && sameEvents(raw, p.lastRaw) {
		return p.last
	}

	events := p.normalize(raw)
	ds := domain.Dataset{Events: events, Fetched: len(raw)}
	p.lastRaw = raw
	p.last = ds
	p.ready.Store(true)

	p.metrics.TableRows.Set(float64(len(events)))
	if len(events) == 0 {
		p.logger.Warn("event table is empty", "fetched", len(raw))
	} else {
		p.logger.Info("event table built", "fetched", len(raw), "rows", len(events))
	}
	return ds
}

// sameEvents reports whether a and b are the same slice, i.e. the cache
// handed back an already-normalized result.
func sameEvents(a, b []domain.RawEvent) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return a != nil && b != nil
	}
	return &a[0] == &b[0]
}
