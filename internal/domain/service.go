// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/tx"
	"tillbox/internal/domain/listing"
)

// CatalogService provides business logic for catalog entities.
type CatalogService[T Entity] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Entity] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Entity](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, id any) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but map not-found to the entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, id)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", id)
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	entity.Stamp()

	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterCreate, entity)
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID int64) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID)
	}
	return entity, nil
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
		return err
	}

	entity.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterUpdate, entity)
}

// Delete performs soft delete.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID int64) error {
	// Load first so before-delete hooks can inspect the entity.
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID)
	}

	if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, entityID, true); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterDelete, entity)
}

// List retrieves a page of entities for a validated query.
func (s *CatalogService[T]) List(ctx context.Context, q listing.Query) (listing.Result[T], error) {
	return s.repo.List(ctx, q)
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID int64) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
