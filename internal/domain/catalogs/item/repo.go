package item

import (
	"context"
)

// Repository defines the interface for Item persistence.
// Items are addressed by their unique string name.
type Repository interface {
	// GetByName loads an item with its template or variant attribute rows.
	// Returns apperror NotFound when the item does not exist.
	GetByName(ctx context.Context, name string) (*Item, error)

	// Exists reports whether an item with this name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// Create inserts the item together with its attribute rows.
	Create(ctx context.Context, it *Item) error

	// Update saves scalar fields with optimistic locking on Version.
	Update(ctx context.Context, it *Item) error

	// Rename changes the item name. After it returns only newName resolves.
	Rename(ctx context.Context, oldName, newName string) error

	// FindVariant returns the name of the variant of template whose binding key
	// equals key, or an empty string when none exists.
	FindVariant(ctx context.Context, template, key string) (string, error)

	// ReplaceTemplateAttributes rewrites the ordered attribute list of a template.
	ReplaceTemplateAttributes(ctx context.Context, it *Item) error
}
