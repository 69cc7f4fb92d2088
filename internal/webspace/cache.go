package webspace

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/locus/internal/database"
	"github.com/yanizio/locus/internal/metrics"
)

// Static defaults.  Override via the resolver config section.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 100
	EvictInterval = 5 * time.Minute
)

// ErrNotFound is returned when a host is not present in the webspace table.
var ErrNotFound = errors.New("webspace not found")

// openFunc builds the per-webspace content pool from its DSN.
type openFunc func(ctx context.Context, dsn string) (*sqlx.DB, error)

// Cache lazily loads webspaces, stores them in a sync.Map keyed by host, and
// evicts them on idle TTL or LRU pressure.
type Cache struct {
	globalDB    *sqlx.DB
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxEntries  int
	maxSuffix   int
	openPool    openFunc
}

// Options tunes a Cache.  Zero values fall back to the package defaults.
type Options struct {
	IdleTTL    time.Duration
	MaxEntries int
	MaxSuffix  int // forwarded to each webspace's locator strategy

	// OpenPool replaces content-pool construction.  Tests hand in sqlmock
	// pools; production leaves it nil.
	OpenPool func(ctx context.Context, dsn string) (*sqlx.DB, error)
}

// New constructs a Cache and starts the background evictor.
func New(global *sqlx.DB, opts Options) *Cache {
	if opts.IdleTTL == 0 {
		opts.IdleTTL = IdleTTL
	}
	if opts.MaxEntries == 0 {
		opts.MaxEntries = MaxEntries
	}
	if opts.OpenPool == nil {
		opts.OpenPool = func(ctx context.Context, dsn string) (*sqlx.DB, error) {
			return database.OpenWithOptions(ctx, dsn, database.Options{
				MaxOpenConns: 5,
				MaxIdleConns: 2,
				Retries:      2,
				RetryBackoff: 500 * time.Millisecond,
			})
		}
	}
	c := &Cache{
		globalDB:   global,
		idleTTL:    opts.IdleTTL,
		maxEntries: opts.MaxEntries,
		maxSuffix:  opts.MaxSuffix,
		openPool:   opts.OpenPool,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Webspace serving host, loading it on demand.
func (c *Cache) Get(host string) (*Webspace, error) {
	if v, ok := c.m.Load(host); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.webspace, nil
	}

	v, err, _ := c.sfg.Do(host, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(host); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.webspace, nil
		}
		ws, err := load(context.Background(), c.globalDB, host, c.openPool, c.maxSuffix)
		if err != nil {
			metrics.WebspaceLoadErrorsTotal.Inc()
			return nil, err
		}
		ent := &entry{
			webspace: ws,
			lastSeen: time.Now().UnixNano(),
		}
		c.m.Store(host, ent)
		metrics.WebspaceLoadTotal.Inc()
		metrics.ActiveWebspaces.Inc()
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Webspace), nil
}

// GetByKey returns the Webspace with the given administrative key.  The
// admin API addresses webspaces by key, not host; the row lookup maps one to
// the other and then shares the host-keyed cache.
func (c *Cache) GetByKey(ctx context.Context, key string) (*Webspace, error) {
	rec, err := ByKey(ctx, c.globalDB, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c.Get(rec.Host)
}
