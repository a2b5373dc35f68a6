// Package category provides the product Category catalog.
package category

import (
	"context"
	"strings"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/entity"
)

// Category represents a product category.
type Category struct {
	entity.Base

	Name string `db:"name" json:"name"`

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`
}

// NewCategory creates a new Category.
func NewCategory(name, description string) *Category {
	return &Category{
		Base:        entity.NewBase(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidationFields(
			apperror.FieldError{Field: "name", Message: "is required"},
		)
	}
	return nil
}
