// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"strings"
	"time"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/entity"
)

// Roles understood by the authorization layer.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier
}

// User represents a system user.
type User struct {
	entity.Base
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

// NewUser creates an active user with an already hashed password.
func NewUser(name, email, passwordHash, role string) *User {
	return &User{
		Base:         entity.NewBase(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
}

// NormalizeEmail lowercases and trims an email address. Lookups and
// uniqueness checks always run on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks user invariants.
func (u *User) Validate(ctx context.Context) error {
	var fields []apperror.FieldError
	if u.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if u.Email == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "is required"})
	} else if !strings.Contains(u.Email, "@") {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "is not a valid address"})
	}
	if !ValidRole(u.Role) {
		fields = append(fields, apperror.FieldError{Field: "role", Message: "must be one of: admin, cashier"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationFields(fields...)
	}
	return nil
}

// CanLogin reports whether the account accepts logins.
func (u *User) CanLogin() bool {
	return u.IsActive && !u.DeletionMark
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest for user creation by an administrator.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
