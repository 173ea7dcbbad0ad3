// Package entity holds the columns and behaviour shared by every stored record.
package entity

import (
	"context"
	"time"

	"varibulk/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains the surrogate key, optimistic-lock version and audit timestamps.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsNew reports whether the entity has not been assigned an ID yet.
func (b *BaseEntity) IsNew() bool {
	return id.IsNil(b.ID)
}

// Touch updates the UpdatedAt timestamp.
// Version is managed by the repository.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}
