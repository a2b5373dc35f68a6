// Package entity defines the shared row shape for persisted records.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains common fields for all persisted entities.
type Base struct {
	// ID is the primary key (BIGSERIAL)
	ID int64 `db:"id" json:"id"`

	// DeletionMark indicates soft-deleted entity
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a Base stamped with the current time.
// The ID is assigned by the database on insert.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key. Used by generic repositories.
func (b *Base) GetID() int64 {
	return b.ID
}

// SetID stores the database-assigned primary key after insert.
func (b *Base) SetID(id int64) {
	b.ID = id
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// Stamp fills zero creation timestamps. Entities decoded from requests
// arrive without them.
func (b *Base) Stamp() {
	if b.CreatedAt.IsZero() {
		now := time.Now().UTC()
		b.CreatedAt = now
		b.UpdatedAt = now
	}
}

// Deleted reports whether the deletion mark is set.
func (b *Base) Deleted() bool {
	return b.DeletionMark
}

// MarkDeleted sets the deletion mark.
func (b *Base) MarkDeleted() {
	b.DeletionMark = true
}

// Undelete clears the deletion mark.
func (b *Base) Undelete() {
	b.DeletionMark = false
}
