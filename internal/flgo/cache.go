package flgo

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"riveros/internal/core"
)

// CacheState is the record cache lifecycle: empty until the first fetch,
// loading while one is in flight, populated afterwards.
type CacheState int

const (
	CacheEmpty CacheState = iota
	CacheLoading
	CachePopulated
)

// RecordCache holds the complete record set for one vessel scope. The set is
// replaced wholesale on refresh; readers always see either the old complete
// set or the new one, never an interleaving. Concurrent EnsurePopulated
// callers coalesce into a single backend fetch.
type RecordCache struct {
	fetch func(context.Context) ([]core.FlgoRecord, error)
	group singleflight.Group

	mu      sync.Mutex
	state   CacheState
	records []core.FlgoRecord
}

func NewRecordCache(fetch func(context.Context) ([]core.FlgoRecord, error)) *RecordCache {
	return &RecordCache{fetch: fetch}
}

// EnsurePopulated returns the cached record set, fetching it first if the
// cache is empty or invalidated. Idempotent; safe for concurrent use.
func (c *RecordCache) EnsurePopulated(ctx context.Context) ([]core.FlgoRecord, error) {
	c.mu.Lock()
	if c.state == CachePopulated {
		recs := c.records
		c.mu.Unlock()
		return recs, nil
	}
	c.state = CacheLoading
	c.mu.Unlock()

	v, err, _ := c.group.Do("records", func() (any, error) {
		recs, err := c.fetch(ctx)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state = CacheEmpty
			return nil, err
		}
		c.records = recs
		c.state = CachePopulated
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.FlgoRecord), nil
}

// Invalidate marks the set stale; the next EnsurePopulated refetches. The
// current set stays readable via Snapshot until then.
func (c *RecordCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == CachePopulated {
		c.state = CacheEmpty
	}
}

// Snapshot returns the current complete set without triggering a fetch.
func (c *RecordCache) Snapshot() ([]core.FlgoRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records, c.state == CachePopulated
}

// State reports the cache lifecycle state.
func (c *RecordCache) State() CacheState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
