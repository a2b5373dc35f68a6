// Package manufacturer provides the Manufacturer catalog.
package manufacturer

import (
	"context"
	"strings"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/entity"
)

// Manufacturer represents a product manufacturer.
type Manufacturer struct {
	entity.Base

	Name string `db:"name" json:"name"`

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`
}

// NewManufacturer creates a new Manufacturer.
func NewManufacturer(name, description string) *Manufacturer {
	return &Manufacturer{
		Base:        entity.NewBase(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

// Validate implements entity.Validatable.
func (m *Manufacturer) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidationFields(
			apperror.FieldError{Field: "name", Message: "is required"},
		)
	}
	return nil
}
