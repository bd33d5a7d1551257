package folio

import (
	"errors"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

// ErrNotFound is returned when a requested entry does not exist.
var ErrNotFound = errors.New("folio: entry not found")

// ContentCache is an in-memory cache of the loaded content collections
// with TTL.
type ContentCache struct {
	mu      sync.RWMutex
	lib     *content.Library
	fetched time.Time
	ttl     time.Duration
	dir     string
	logger  echo.Logger
}

// NewContentCache creates a ContentCache reading from dir. Files that fail
// their schema are reported through logger on every reload.
func NewContentCache(dir string, ttl time.Duration, logger echo.Logger) *ContentCache {
	return &ContentCache{dir: dir, ttl: ttl, logger: logger}
}

func (c *ContentCache) valid() bool {
	return c.lib != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.lib = nil
	c.mu.Unlock()
}

func (c *ContentCache) load() error {
	if c.valid() {
		return nil
	}
	lib, err := content.Load(c.dir)
	if err != nil {
		return err
	}
	if c.logger != nil {
		for _, p := range lib.Problems {
			c.logger.Warnf("content: skipped %v", p)
		}
	}
	c.lib = lib
	c.fetched = time.Now()
	return nil
}

// Library returns the cached library after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) Library() (*content.Library, error) {
	c.mu.RLock()
	if c.valid() {
		lib := c.lib
		c.mu.RUnlock()
		return lib, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.lib, nil
}

// Entries returns the entries of one collection, newest first.
func (c *ContentCache) Entries(collection string) ([]content.Entry, error) {
	lib, err := c.Library()
	if err != nil {
		return nil, err
	}
	return lib.Collection(collection), nil
}

// Entry returns a single entry from the cache.
func (c *ContentCache) Entry(collection, slug string) (content.Entry, error) {
	lib, err := c.Library()
	if err != nil {
		return content.Entry{}, err
	}
	e, ok := lib.Find(collection, slug)
	if !ok {
		return content.Entry{}, ErrNotFound
	}
	return e, nil
}
