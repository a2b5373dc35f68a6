// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"tillbox/internal/core/apperror"
	"tillbox/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 8,
	}
}

// Service provides authentication and user management logic.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
	}
}

// Login authenticates a user and returns an access token.
// Failures are reported uniformly so callers cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	// A disabled account reads the same as bad credentials; only the log
	// records the real reason.
	if !user.CanLogin() {
		logger.Info(ctx, "login rejected for disabled account", "user_id", user.ID)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"email", user.Email)

	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, user, nil
}

// CreateUser registers a new user. Admin-only at the HTTP layer.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var fields []apperror.FieldError
	if req.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if NormalizeEmail(req.Email) == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "is required"})
	}
	if len(req.Password) < s.config.PasswordMinLength {
		fields = append(fields, apperror.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", s.config.PasswordMinLength),
		})
	}
	if !ValidRole(req.Role) {
		fields = append(fields, apperror.FieldError{Field: "role", Message: "must be one of: admin, cashier"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationFields(fields...)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "email", NormalizeEmail(req.Email))
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Name, req.Email, string(passwordHash), req.Role)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user created",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role)

	return user, nil
}

// GetUserByID retrieves a user. Backs the /auth/me endpoint.
func (s *Service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID)
	}
	return user, nil
}
