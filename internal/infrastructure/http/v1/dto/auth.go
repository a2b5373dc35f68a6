package dto

import (
	"time"

	"tillbox/internal/domain/auth"
)

// UserResponse is the public user shape. The password hash never leaves the
// domain layer.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromUser creates the public shape from a domain user.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// LoginData is the login response payload.
type LoginData struct {
	Token *auth.Token  `json:"token"`
	User  UserResponse `json:"user"`
}
