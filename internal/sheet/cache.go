package sheet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pnlpulse/internal/infrastructure"
	"pnlpulse/internal/ledger"
)

// RefreshListener is notified after the cache repopulates from the
// underlying source. The websocket hub uses it to push refresh events.
type RefreshListener func(rows int)

// CachedSource wraps a Source with a TTL cache so repeated client
// selections reuse one download. Invalidation is explicit (Invalidate) or
// by TTL expiry; the cache never lives inside the metrics engine.
type CachedSource struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger
	tel    *infrastructure.Telemetry

	mu        sync.Mutex
	table     ledger.RawTable
	fetchedAt time.Time

	listeners []RefreshListener
}

// NewCachedSource creates a caching decorator around source.
func NewCachedSource(source Source, ttl time.Duration, logger *slog.Logger, tel *infrastructure.Telemetry) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		source: source,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "sheet.cache")),
		tel:    tel,
	}
}

// OnRefresh registers a listener invoked after each successful refetch.
// Not safe to call concurrently with FetchRawTable; register listeners
// during startup.
func (c *CachedSource) OnRefresh(fn RefreshListener) {
	c.listeners = append(c.listeners, fn)
}

// FetchRawTable returns the cached table, refetching when the TTL lapsed
// or the cache was invalidated. A failed refetch does not fall back to the
// stale table: fetch failures are fatal to the request by contract.
func (c *CachedSource) FetchRawTable(ctx context.Context) (ledger.RawTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil && time.Since(c.fetchedAt) < c.ttl {
		c.tel.RecordCacheHit(ctx)
		c.logger.DebugContext(ctx, "cache hit",
			slog.Time("fetched_at", c.fetchedAt),
			slog.Int("rows", len(c.table)))
		return c.table, nil
	}

	table, err := c.source.FetchRawTable(ctx)
	if err != nil {
		c.tel.RecordFetch(ctx, "error")
		return nil, err
	}
	c.tel.RecordFetch(ctx, "ok")

	c.table = table
	c.fetchedAt = time.Now()
	c.logger.InfoContext(ctx, "cache refreshed", slog.Int("rows", len(table)))

	for _, fn := range c.listeners {
		fn(len(table))
	}

	return table, nil
}

// Invalidate drops the cached table so the next fetch hits the source.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
	c.fetchedAt = time.Time{}
	c.logger.Info("cache invalidated")
}
