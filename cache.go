package sheetstore

import (
	"sort"
	"sync"
)

// SheetIDCache maps sheet titles to backend sheet ids for the lifetime of a client.
// Renames and deletions are not observable, so callers invalidate explicitly.
type SheetIDCache struct {
	mu  sync.RWMutex
	ids map[string]int64
}

// NewSheetIDCache creates an empty cache
func NewSheetIDCache() *SheetIDCache {
	return &SheetIDCache{
		ids: make(map[string]int64),
	}
}

// Get returns the cached id for title
func (c *SheetIDCache) Get(title string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.ids[title]
	return id, ok
}

// Load replaces the cache content with the given sheets
func (c *SheetIDCache) Load(sheets []SheetProperties) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids = make(map[string]int64, len(sheets))
	for _, s := range sheets {
		c.ids[s.Title] = s.SheetID
	}
}

// Invalidate drops the given titles, or everything when none are given
func (c *SheetIDCache) Invalidate(titles ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(titles) == 0 {
		c.ids = make(map[string]int64)
		return
	}
	for _, t := range titles {
		delete(c.ids, t)
	}
}

// Titles returns the cached titles sorted
func (c *SheetIDCache) Titles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	titles := make([]string, 0, len(c.ids))
	for t := range c.ids {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Size returns the number of cached titles
func (c *SheetIDCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.ids)
}
