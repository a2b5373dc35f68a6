// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID int64) (*User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates user data.
	Update(ctx context.Context, user *User) error

	// ExistsByEmail checks whether an email is already registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
