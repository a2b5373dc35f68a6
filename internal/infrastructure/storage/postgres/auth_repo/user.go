// Package auth_repo provides the PostgreSQL implementation of the auth
// repositories.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/auth"
	"tillbox/internal/infrastructure/storage/postgres"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

// Create inserts a new user and writes the generated id back.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			name, email, password_hash, role, is_active,
			deletion_mark, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive,
		user.DeletionMark, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*auth.User, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `
		SELECT id, deletion_mark, created_at, updated_at,
			   name, email, password_hash, role, is_active
		FROM users
		WHERE id = $1 AND deletion_mark = FALSE
	`

	var user auth.User
	err := q.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.DeletionMark, &user.CreatedAt, &user.UpdatedAt,
		&user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email. Callers pass the normalized form.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `
		SELECT id, deletion_mark, created_at, updated_at,
			   name, email, password_hash, role, is_active
		FROM users
		WHERE email = $1 AND deletion_mark = FALSE
	`

	var user auth.User
	err := q.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.DeletionMark, &user.CreatedAt, &user.UpdatedAt,
		&user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// Update updates user data.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		UPDATE users SET
			name = $2,
			email = $3,
			password_hash = $4,
			role = $5,
			is_active = $6,
			deletion_mark = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.Role, user.IsActive, user.DeletionMark,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID)
	}

	return nil
}

// ExistsByEmail checks whether an email is already registered, soft-deleted
// accounts included so a removed address cannot be silently reused.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := q.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

// Ensure interface compliance
var _ auth.UserRepository = (*UserRepo)(nil)
