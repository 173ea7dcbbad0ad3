// Package cache keeps item attribute definitions in memory and drops them
// when PostgreSQL announces a change through NOTIFY.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"varibulk/internal/domain/catalogs/attribute"
)

var _ attribute.Repository = (*AttributeCache)(nil)

// AttributeCache decorates an attribute.Repository. Lookups by name are
// served from memory; searches always go to the store.
type AttributeCache struct {
	next attribute.Repository

	mu      sync.RWMutex
	entries map[string]*attribute.Attribute
	// gen is bumped by every invalidation; loads that started before it are not stored
	gen uint64

	hits   atomic.Int64
	misses atomic.Int64
}

// NewAttributeCache wraps next.
func NewAttributeCache(next attribute.Repository) *AttributeCache {
	return &AttributeCache{
		next:    next,
		entries: make(map[string]*attribute.Attribute),
	}
}

// GetByName implements attribute.Repository.
func (c *AttributeCache) GetByName(ctx context.Context, name string) (*attribute.Attribute, error) {
	if a, ok := c.get(name); ok {
		c.hits.Add(1)
		return a, nil
	}
	c.misses.Add(1)

	gen := c.generation()
	a, err := c.next.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	c.put(gen, a)
	return clone(a), nil
}

// ListByNames implements attribute.Repository.
func (c *AttributeCache) ListByNames(ctx context.Context, names []string) (map[string]*attribute.Attribute, error) {
	out := make(map[string]*attribute.Attribute, len(names))
	var missing []string
	for _, n := range names {
		if a, ok := c.get(n); ok {
			out[n] = a
			continue
		}
		missing = append(missing, n)
	}
	c.hits.Add(int64(len(out)))
	if len(missing) == 0 {
		return out, nil
	}
	c.misses.Add(int64(len(missing)))

	gen := c.generation()
	loaded, err := c.next.ListByNames(ctx, missing)
	if err != nil {
		return nil, err
	}
	for n, a := range loaded {
		c.put(gen, a)
		out[n] = clone(a)
	}
	return out, nil
}

// SearchValues implements attribute.Repository.
func (c *AttributeCache) SearchValues(ctx context.Context, attr, text string, start, limit int) ([]attribute.Value, error) {
	return c.next.SearchValues(ctx, attr, text, start, limit)
}

// Create implements attribute.Repository.
func (c *AttributeCache) Create(ctx context.Context, a *attribute.Attribute) error {
	if err := c.next.Create(ctx, a); err != nil {
		return err
	}
	c.Invalidate(a.Name)
	return nil
}

// Invalidate drops one attribute, or everything when name is empty.
func (c *AttributeCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if name == "" {
		c.entries = make(map[string]*attribute.Attribute)
		return
	}
	delete(c.entries, name)
}

// Stats returns cache statistics.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns current counters.
func (c *AttributeCache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *AttributeCache) get(name string) (*attribute.Attribute, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return clone(a), true
}

func (c *AttributeCache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// put stores a loaded attribute unless an invalidation happened since gen was read.
func (c *AttributeCache) put(gen uint64, a *attribute.Attribute) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.entries[a.Name] = clone(a)
}

// clone copies the value slice so callers may sort or append freely.
func clone(a *attribute.Attribute) *attribute.Attribute {
	cp := *a
	cp.Values = append([]attribute.Value(nil), a.Values...)
	return &cp
}
