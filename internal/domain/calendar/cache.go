package calendar

import (
	"sync"
	"time"
)

type eventKey struct {
	uid     string
	startMs int64
	endMs   int64
}

// Cache holds the last fetched feed events per property. It lives for the
// process lifetime and is never persisted.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]*Entry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[int64]*Entry),
		now:     time.Now,
	}
}

// UpsertMerged unions urls into the known feed set and replaces the events
// with those of feeds, deduplicated by (uid, start, end). Events cached from
// earlier calls are dropped.
func (c *Cache) UpsertMerged(propertyID int64, urls []string, feeds []Feed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var known []string
	if prev, ok := c.entries[propertyID]; ok {
		known = prev.URLs
	}

	seenURL := make(map[string]struct{}, len(known)+len(urls))
	merged := make([]string, 0, len(known)+len(urls))
	for _, list := range [][]string{known, urls} {
		for _, u := range list {
			if _, dup := seenURL[u]; dup {
				continue
			}
			seenURL[u] = struct{}{}
			merged = append(merged, u)
		}
	}

	seen := make(map[eventKey]struct{})
	events := make([]Event, 0)
	for _, f := range feeds {
		for _, ev := range f.Events {
			k := eventKey{uid: ev.UID, startMs: ev.Start.UnixMilli(), endMs: ev.End.UnixMilli()}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			events = append(events, ev)
		}
	}

	c.entries[propertyID] = &Entry{URLs: merged, Events: events, FetchedAt: c.now()}
}

// IsFresh reports whether the entry was fetched less than maxAge ago.
func (c *Cache) IsFresh(propertyID int64, maxAge time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[propertyID]
	if !ok {
		return false
	}
	return c.now().Sub(e.FetchedAt) < maxAge
}

// Get returns a copy that callers may modify freely.
func (c *Cache) Get(propertyID int64) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[propertyID]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		URLs:      append([]string(nil), e.URLs...),
		Events:    append([]Event(nil), e.Events...),
		FetchedAt: e.FetchedAt,
	}, true
}

func (c *Cache) Invalidate(propertyID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, propertyID)
}
