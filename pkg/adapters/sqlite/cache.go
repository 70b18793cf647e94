package sqlite

import (
	"slices"
	"sync"

	"github.com/aretw0/dogear/pkg/core"
)

// cache holds the last full listing together with the PRAGMA data_version
// it was read at. SQLite bumps data_version on this connection whenever
// another connection commits, so a matching version means the rows are unchanged.
type cache struct {
	mu         sync.Mutex
	valid      bool
	version    int64
	generation uint64
	bookmarks  []core.Bookmark
}

func newCache() *cache {
	return &cache{}
}

// Get returns a copy of the cached listing when it was read at version.
// On a miss it returns the generation to hand back to Put.
func (c *cache) Get(version int64) ([]core.Bookmark, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.version != version {
		return nil, c.generation, false
	}
	return cloneAll(c.bookmarks), c.generation, true
}

// Put stores a listing unless the cache was invalidated after generation was read.
func (c *cache) Put(generation uint64, version int64, bookmarks []core.Bookmark) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.valid = true
	c.version = version
	c.bookmarks = cloneAll(bookmarks)
}

// Invalidate drops the listing. Local writes do not move data_version,
// so every mutation must call it.
func (c *cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.generation++
	c.bookmarks = nil
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return 0
	}
	return len(c.bookmarks)
}

func cloneAll(in []core.Bookmark) []core.Bookmark {
	out := make([]core.Bookmark, len(in))
	for i, b := range in {
		b.Tags = slices.Clone(b.Tags)
		out[i] = b
	}
	return out
}
