// Package beatmapcache stores downloaded beatmap files in a local sqlite
// database so repeated checks do not re-download them. Concurrent
// requests for the same uncached beatmap are coalesced into a single
// download.
package beatmapcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"pptally/pkg/logger"
	"pptally/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS beatmaps (
	id         INTEGER PRIMARY KEY,
	data       BLOB    NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// Fetcher downloads a beatmap file on a cache miss.
type Fetcher interface {
	Beatmap(ctx context.Context, beatmapID int64) ([]byte, error)
}

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// download tracks one in-flight fetch shared by coalesced callers.
type download struct {
	done chan struct{}
	data []byte
	err  error
}

// Cache is a read-through beatmap store. Safe for concurrent use.
type Cache struct {
	db     *sql.DB
	fetch  Fetcher
	logger logger.Logger

	mu       sync.Mutex
	inflight map[int64]*download
}

// Open opens (creating if needed) the cache database at path.
func Open(path string, fetch Fetcher, opts ...Option) (*Cache, error) {
	if fetch == nil {
		return nil, ErrNilFetcher
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	c := &Cache{
		db:       db,
		fetch:    fetch,
		logger:   logger.Named("beatmapcache"),
		inflight: make(map[int64]*download),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the beatmap file, reading through to the fetcher on a miss.
func (c *Cache) Get(ctx context.Context, beatmapID int64) ([]byte, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM beatmaps WHERE id = ?`, beatmapID).Scan(&data)
	switch {
	case err == nil:
		metrics.RecordCacheHit()
		return data, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	metrics.RecordCacheMiss()

	c.mu.Lock()
	if d, ok := c.inflight[beatmapID]; ok {
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await download: %w", ctx.Err())
		case <-d.done:
			return d.data, d.err
		}
	}
	d := &download{done: make(chan struct{})}
	c.inflight[beatmapID] = d
	c.mu.Unlock()

	d.data, d.err = c.fetch.Beatmap(ctx, beatmapID)
	if d.err == nil {
		if err := c.store(ctx, beatmapID, d.data); err != nil {
			// A failed write only costs a re-download next run.
			c.logger.Warn(ctx, "cache store failed",
				logger.Int64("beatmap_id", beatmapID), logger.Error(err))
		}
	}
	close(d.done)

	c.mu.Lock()
	delete(c.inflight, beatmapID)
	c.mu.Unlock()

	return d.data, d.err
}

// Size reports how many beatmaps are cached.
func (c *Cache) Size(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM beatmaps`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache size: %w", err)
	}
	return n, nil
}

func (c *Cache) store(ctx context.Context, beatmapID int64, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO beatmaps (id, data, fetched_at) VALUES (?, ?, ?)`,
		beatmapID, data, time.Now().Unix())
	return err
}
