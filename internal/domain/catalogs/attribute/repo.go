package attribute

import (
	"context"
)

// Repository defines the interface for Item Attribute persistence.
type Repository interface {
	// GetByName returns the attribute with its values ordered by idx.
	// Returns apperror NotFound when the attribute does not exist.
	GetByName(ctx context.Context, name string) (*Attribute, error)

	// ListByNames returns the named attributes with their values, keyed by name.
	// Unknown names are absent from the result.
	ListByNames(ctx context.Context, names []string) (map[string]*Attribute, error)

	// SearchValues matches text case-insensitively against value or abbreviation,
	// ordered by idx, paginated by start/limit.
	SearchValues(ctx context.Context, attribute, text string, start, limit int) ([]Value, error)

	// Create inserts the attribute and its values.
	Create(ctx context.Context, attr *Attribute) error
}
