package entity

import (
	"context"
	"strings"

	"varibulk/internal/core/apperror"
)

// Catalog is the base type for reference data addressed by a string name
// (items, item attributes). Name is unique and may be renamed.
type Catalog struct {
	BaseEntity

	// Name is the business identifier (item code, attribute name)
	Name string `db:"name" json:"name"`

	// Disabled hides the record from pickers without deleting it
	Disabled bool `db:"disabled" json:"disabled"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Name:       strings.TrimSpace(name),
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
