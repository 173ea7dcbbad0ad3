package item

import (
	"context"
	"sync"

	"varibulk/internal/core/apperror"
)

// MemoryRepository is an in-memory Repository for unit tests.
// Fail* fields inject store failures into the matching operation.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*Item

	FailCreate error
	FailUpdate error
	FailRename error

	// Calls counts operations by name ("create", "update", "rename", "find").
	Calls map[string]int
}

// NewMemoryRepository creates a repository holding copies of items.
func NewMemoryRepository(items ...*Item) *MemoryRepository {
	r := &MemoryRepository{
		items: make(map[string]*Item),
		Calls: make(map[string]int),
	}
	for _, it := range items {
		r.items[it.Name] = cloneItem(it)
	}
	return r
}

// GetByName implements Repository.
func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[name]
	if !ok {
		return nil, apperror.NewNotFound("item", name)
	}
	return cloneItem(it), nil
}

// Exists implements Repository.
func (r *MemoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[name]
	return ok, nil
}

// Create implements Repository.
func (r *MemoryRepository) Create(ctx context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls["create"]++
	if r.FailCreate != nil {
		return r.FailCreate
	}
	if _, ok := r.items[it.Name]; ok {
		return apperror.NewDuplicate("item", "name", it.Name)
	}
	r.items[it.Name] = cloneItem(it)
	return nil
}

// Update implements Repository.
func (r *MemoryRepository) Update(ctx context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls["update"]++
	if r.FailUpdate != nil {
		return r.FailUpdate
	}
	stored, ok := r.items[it.Name]
	if !ok {
		return apperror.NewNotFound("item", it.Name)
	}
	if stored.Version != it.Version {
		return apperror.NewConcurrentModification("item", it.Name)
	}
	it.Version++
	cp := cloneItem(it)
	cp.TemplateAttributes = stored.TemplateAttributes
	cp.VariantAttributes = stored.VariantAttributes
	r.items[it.Name] = cp
	return nil
}

// Rename implements Repository.
func (r *MemoryRepository) Rename(ctx context.Context, oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls["rename"]++
	if r.FailRename != nil {
		return r.FailRename
	}
	it, ok := r.items[oldName]
	if !ok {
		return apperror.NewNotFound("item", oldName)
	}
	if _, taken := r.items[newName]; taken {
		return apperror.NewDuplicate("item", "name", newName)
	}
	delete(r.items, oldName)
	it.Name = newName
	r.items[newName] = it
	for _, other := range r.items {
		if other.VariantOf != nil && *other.VariantOf == oldName {
			renamed := newName
			other.VariantOf = &renamed
		}
	}
	return nil
}

// FindVariant implements Repository.
func (r *MemoryRepository) FindVariant(ctx context.Context, template, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls["find"]++
	for name, it := range r.items {
		if it.VariantOf != nil && *it.VariantOf == template && it.VariantKey != nil && *it.VariantKey == key {
			return name, nil
		}
	}
	return "", nil
}

// ReplaceTemplateAttributes implements Repository.
func (r *MemoryRepository) ReplaceTemplateAttributes(ctx context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[it.Name]
	if !ok {
		return apperror.NewNotFound("item", it.Name)
	}
	stored.TemplateAttributes = append([]TemplateAttribute(nil), it.TemplateAttributes...)
	return nil
}

// VariantsOf returns the names of all stored variants of template.
func (r *MemoryRepository) VariantsOf(template string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for name, it := range r.items {
		if it.VariantOf != nil && *it.VariantOf == template {
			names = append(names, name)
		}
	}
	return names
}

func cloneItem(it *Item) *Item {
	cp := *it
	cp.TemplateAttributes = append([]TemplateAttribute(nil), it.TemplateAttributes...)
	cp.VariantAttributes = append([]VariantAttribute(nil), it.VariantAttributes...)
	return &cp
}

// Ensure compile-time interface compliance.
var _ Repository = (*MemoryRepository)(nil)
