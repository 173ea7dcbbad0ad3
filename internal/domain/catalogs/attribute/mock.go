package attribute

import (
	"context"
	"sort"
	"strings"
	"sync"

	"varibulk/internal/core/apperror"
)

// MemoryRepository is an in-memory Repository for unit tests of packages
// that depend on attribute lookups.
type MemoryRepository struct {
	mu    sync.RWMutex
	attrs map[string]*Attribute

	// LastStart and LastLimit record the pagination of the last SearchValues call.
	LastStart, LastLimit int
}

// NewMemoryRepository creates an empty repository, optionally pre-filled.
func NewMemoryRepository(attrs ...*Attribute) *MemoryRepository {
	r := &MemoryRepository{attrs: make(map[string]*Attribute)}
	for _, a := range attrs {
		r.attrs[a.Name] = a
	}
	return r
}

// GetByName implements Repository.
func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*Attribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.attrs[name]
	if !ok {
		return nil, apperror.NewNotFound("item attribute", name)
	}
	return clone(a), nil
}

// ListByNames implements Repository.
func (r *MemoryRepository) ListByNames(ctx context.Context, names []string) (map[string]*Attribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Attribute, len(names))
	for _, n := range names {
		if a, ok := r.attrs[n]; ok {
			out[n] = clone(a)
		}
	}
	return out, nil
}

// SearchValues implements Repository.
func (r *MemoryRepository) SearchValues(ctx context.Context, attribute, text string, start, limit int) ([]Value, error) {
	r.mu.Lock()
	r.LastStart, r.LastLimit = start, limit
	a, ok := r.attrs[attribute]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}

	needle := strings.ToLower(text)
	var out []Value
	for _, v := range sortedValues(a) {
		if strings.Contains(strings.ToLower(v.Value), needle) || strings.Contains(strings.ToLower(v.Abbr), needle) {
			out = append(out, v)
		}
	}
	if start >= len(out) {
		return nil, nil
	}
	out = out[start:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Create implements Repository.
func (r *MemoryRepository) Create(ctx context.Context, attr *Attribute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.attrs[attr.Name]; ok {
		return apperror.NewDuplicate("item attribute", "name", attr.Name)
	}
	r.attrs[attr.Name] = clone(attr)
	return nil
}

func clone(a *Attribute) *Attribute {
	cp := *a
	cp.Values = sortedValues(a)
	return &cp
}

func sortedValues(a *Attribute) []Value {
	values := append([]Value(nil), a.Values...)
	sort.SliceStable(values, func(i, j int) bool { return values[i].Idx < values[j].Idx })
	return values
}

// Ensure compile-time interface compliance.
var _ Repository = (*MemoryRepository)(nil)
