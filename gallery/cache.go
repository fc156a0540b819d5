package gallery

import (
	"fmt"
	"strings"
	"sync"

	"young-portfolio/model"
)

// ViewCache memoizes derived views keyed by a cheap content fingerprint
// (item count plus the serialized filter state). Derivation walks the whole
// collection and is not incremental, so consumers ask the cache instead of
// recomputing per render. The cache is pull-based: a stale entry is never
// pushed out, it is invalidated on mutation and recomputed on the next ask.
type ViewCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func NewViewCache() *ViewCache {
	return &ViewCache{entries: map[string]any{}}
}

func groupsKey(n int, state FilterState) string {
	return fmt.Sprintf("groups-%d-%s", n, state.Fingerprint())
}

func worksKey(n int, state FilterState) string {
	return fmt.Sprintf("filtered-%d-%s", n, state.Fingerprint())
}

// FilteredWorks returns the memoized filter result for (items, state),
// computing it on a miss.
func (c *ViewCache) FilteredWorks(items []model.Work, state FilterState) []model.Work {
	key := worksKey(len(items), state)
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v.([]model.Work)
	}
	out := Filter(items, state)
	c.entries[key] = out
	return out
}

// GroupedWorks returns the memoized grouping of the filtered collection.
func (c *ViewCache) GroupedWorks(items []model.Work, state FilterState) []EventGroup {
	key := groupsKey(len(items), state)
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v.([]EventGroup)
	}
	out := Group(Filter(items, state))
	c.entries[key] = out
	return out
}

// Invalidate drops entries whose key contains any of the given fragments;
// with no fragments it clears everything.
func (c *ViewCache) Invalidate(fragments ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(fragments) == 0 {
		c.entries = map[string]any{}
		return
	}
	for key := range c.entries {
		for _, frag := range fragments {
			if strings.Contains(key, frag) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Clear drops every cached view.
func (c *ViewCache) Clear() {
	c.Invalidate()
}

// Len reports the number of live entries, for tests and debug logging.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
