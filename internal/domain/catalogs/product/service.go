package product

import (
	"context"
	"fmt"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/tx"
	"tillbox/internal/domain"
)

// RefChecker verifies that a referenced catalog row exists and is active.
// Category and manufacturer services satisfy it.
type RefChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo          Repository
	categories    RefChecker
	manufacturers RefChecker
}

// NewService creates a new Product service.
func NewService(repo Repository, categories, manufacturers RefChecker, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
		manufacturers:  manufacturers,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare runs referential and uniqueness checks before create/update.
func (s *Service) prepare(ctx context.Context, p *Product) error {
	if err := s.checkReferences(ctx, p); err != nil {
		return err
	}

	if p.Barcode != nil && *p.Barcode != "" {
		if exists, err := s.checkBarcodeExists(ctx, *p.Barcode, p.ID); err != nil {
			return err
		} else if exists {
			return apperror.NewDuplicate("product", "barcode", *p.Barcode)
		}
	}

	return nil
}

// checkReferences verifies category and manufacturer exist and are active.
func (s *Service) checkReferences(ctx context.Context, p *Product) error {
	ok, err := s.categories.Exists(ctx, p.CategoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return apperror.NewValidationFields(
			apperror.FieldError{Field: "categoryId", Message: "references an unknown category"},
		)
	}

	ok, err = s.manufacturers.Exists(ctx, p.ManufacturerID)
	if err != nil {
		return fmt.Errorf("check manufacturer: %w", err)
	}
	if !ok {
		return apperror.NewValidationFields(
			apperror.FieldError{Field: "manufacturerId", Message: "references an unknown manufacturer"},
		)
	}

	return nil
}

// FindByBarcode retrieves a product by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

// checkBarcodeExists checks if a barcode is already used by another product.
func (s *Service) checkBarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	existing, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
