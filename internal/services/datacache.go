package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// DataCache serves one upstream table.
type DataCache interface {
	// Data returns the parsed table. Callers must not modify it.
	Data(ctx context.Context) (entity.Table, error)
	// Raw returns the raw upstream response.
	Raw(ctx context.Context) (string, error)
	// Refresh re-fetches from upstream, bypassing every cache layer.
	Refresh(ctx context.Context) error
}

// ParseFunc converts a raw upstream response into a table.
type ParseFunc func(raw string) (entity.Table, error)

// RefreshableCache implements DataCache. Raw responses are kept in process and
// in the shared Cache for ttl. Parsed tables are kept per raw revision.
// Concurrent loads of one path collapse into a single upstream request.
type RefreshableCache struct {
	path    string
	key     string
	fetcher Fetcher
	cache   Cache
	parse   ParseFunc
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	raw       string
	rev       int
	fetchedAt time.Time
	table     entity.Table
	tableRev  int
}

var _ DataCache = (*RefreshableCache)(nil)

// NewRefreshableCache creates a cache for path, stored in the shared cache
// under key. cache may be nil, in which case only the in-process copy is kept.
func NewRefreshableCache(path, key string, fetcher Fetcher, cache Cache, parse ParseFunc, ttl time.Duration, logger *slog.Logger) *RefreshableCache {
	return &RefreshableCache{
		path:    path,
		key:     key,
		fetcher: fetcher,
		cache:   cache,
		parse:   parse,
		ttl:     ttl,
		logger:  logger.With("path", path),
		now:     time.Now,
	}
}

// FetchedAt reports when the raw response was last loaded, or the zero time
// before the first load.
func (c *RefreshableCache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Path returns the upstream path served by this cache.
func (c *RefreshableCache) Path() string {
	return c.path
}

func (c *RefreshableCache) Raw(ctx context.Context) (string, error) {
	c.mu.RLock()
	raw, fresh := c.raw, c.rev > 0 && c.now().Sub(c.fetchedAt) < c.ttl
	c.mu.RUnlock()
	if fresh {
		return raw, nil
	}

	return c.shared(ctx, "load", false)
}

func (c *RefreshableCache) Data(ctx context.Context) (entity.Table, error) {
	if _, err := c.Raw(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.table != nil && c.tableRev == c.rev {
		table := c.table
		c.mu.Unlock()
		return table, nil
	}
	table, err := c.parse(c.raw)
	if err != nil {
		// An unparseable body must not be served again from either layer.
		c.fetchedAt = time.Time{}
		c.mu.Unlock()
		c.invalidate(ctx)
		return nil, fmt.Errorf("parsing %s: %w", c.path, err)
	}
	c.table, c.tableRev = table, c.rev
	c.mu.Unlock()
	c.logger.Debug("Parsed upstream data", "entities", len(table))
	return table, nil
}

func (c *RefreshableCache) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, c.key); err != nil {
		c.logger.Warn("Cache delete failed", "error", err)
	}
}

func (c *RefreshableCache) Refresh(ctx context.Context) error {
	_, err := c.shared(ctx, "refresh", true)
	return err
}

// shared joins the in-flight load for key. The load is detached from caller
// cancellation; each caller stops waiting when its own ctx is done.
func (c *RefreshableCache) shared(ctx context.Context, key string, force bool) (string, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), force)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *RefreshableCache) load(ctx context.Context, force bool) (string, error) {
	key := c.key

	if !force && c.cache != nil {
		raw, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("Cache read failed, fetching upstream", "error", err)
		} else if raw != "" {
			c.store(raw)
			return raw, nil
		}
	}

	raw, err := c.fetcher.Fetch(ctx, c.path)
	if err != nil {
		c.mu.RLock()
		stale, ok := c.raw, c.rev > 0
		c.mu.RUnlock()
		if ok && !force {
			c.logger.Warn("Upstream fetch failed, serving stale data", "error", err)
			return stale, nil
		}
		return "", fmt.Errorf("fetching %s: %w", c.path, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("Cache write failed", "error", err)
		}
	}
	c.store(raw)
	c.logger.Info("Fetched upstream data", "bytes", len(raw), "forced", force)
	return raw, nil
}

func (c *RefreshableCache) store(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rev == 0 || raw != c.raw {
		c.raw = raw
		c.rev++
	}
	c.fetchedAt = c.now()
}
