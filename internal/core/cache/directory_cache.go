// Package cache keeps an in-process mirror of the user directory so that
// lookups do not re-read the remote table on every request.
package cache

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// ErrNotLoaded is returned by Append when the cache has never been populated.
var ErrNotLoaded = errors.New("directory cache not loaded")

// FetchFunc reads the full record set from the remote store.
type FetchFunc func(ctx context.Context) ([]domain.UserRecord, error)

// DirectoryCache is populated lazily on first Load and afterwards only grows
// through Append. There is no eviction and no reload: records written to the
// remote store by other processes are not seen until restart.
type DirectoryCache struct {
	fetch FetchFunc

	mu      sync.RWMutex
	records []domain.UserRecord
	loaded  bool

	group singleflight.Group
}

func New(fetch FetchFunc) *DirectoryCache {
	return &DirectoryCache{fetch: fetch}
}

// Load returns a snapshot of the cached records, fetching them from the
// remote store if the cache is empty. Concurrent first calls share a single
// fetch. A failed fetch leaves the cache unpopulated.
func (c *DirectoryCache) Load(ctx context.Context) ([]domain.UserRecord, error) {
	if records, ok := c.snapshot(); ok {
		return records, nil
	}

	// The shared fetch must not be cancelled because the first caller gave up.
	ch := c.group.DoChan("load", func() (any, error) {
		if records, ok := c.snapshot(); ok {
			return records, nil
		}
		fetched, err := c.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.populate(fetched)
		records, _ := c.snapshot()
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		records := res.Val.([]domain.UserRecord)
		if res.Shared {
			records = clone(records)
		}
		return records, nil
	}
}

// Append mirrors a record that has already been written to the remote store.
func (c *DirectoryCache) Append(record domain.UserRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return ErrNotLoaded
	}
	c.records = append(c.records, record)
	return nil
}

// Loaded reports whether the cache has been populated.
func (c *DirectoryCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *DirectoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *DirectoryCache) snapshot() ([]domain.UserRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	return clone(c.records), true
}

// populate merges fetched into whatever is already cached, keyed by email,
// keeping the existing record when both sides have one.
func (c *DirectoryCache) populate(fetched []domain.UserRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(c.records)+len(fetched))
	for _, r := range c.records {
		seen[r.Email] = struct{}{}
	}
	for _, r := range fetched {
		if _, ok := seen[r.Email]; ok {
			continue
		}
		seen[r.Email] = struct{}{}
		c.records = append(c.records, r)
	}
	c.loaded = true
}

func clone(records []domain.UserRecord) []domain.UserRecord {
	out := make([]domain.UserRecord, len(records))
	copy(out, records)
	return out
}
