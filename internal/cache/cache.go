package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxItems bounds the memory tier when no explicit capacity is
// configured.
const DefaultMaxItems = 512

// Cache is the bounded in-process tier of processed avatar responses.
// Inserting past capacity evicts the least-recently-used entry; a Get counts
// as a touch. Safe for concurrent use. Created once at process start and
// never implicitly reset.
type Cache struct {
	entries  *lru.Cache[Key, *Entry]
	maxItems int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	EntryCount int    `json:"entry_count"`
	MaxItems   int    `json:"max_items"`
}

func New(maxItems int) (*Cache, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	entries, err := lru.New[Key, *Entry](maxItems)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, maxItems: maxItems}, nil
}

// Get returns the entry for key, touching it to the most-recently-used
// position.
func (c *Cache) Get(key Key) (*Entry, bool) {
	e, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return e, ok
}

// Put publishes freshly processed bytes under key, deriving the ETag and
// stamping ModTime and LastRefresh with now. Concurrent producers for the
// same key compute identical output, so the last writer winning is safe.
func (c *Cache) Put(key Key, buf []byte, now time.Time) *Entry {
	e := &Entry{
		Buffer:      buf,
		ETag:        etagFor(buf),
		ModTime:     now,
		LastRefresh: now,
		Resolution:  key.Resolution,
		Color:       key.Color,
	}
	c.entries.Add(key, e)
	return e
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		EntryCount: c.entries.Len(),
		MaxItems:   c.maxItems,
	}
}
