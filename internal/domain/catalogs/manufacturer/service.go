package manufacturer

import (
	"context"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/tx"
	"tillbox/internal/domain"
)

// Service provides business logic for the Manufacturer catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Manufacturer]
	repo Repository
}

// NewService creates a new Manufacturer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Manufacturer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "manufacturer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkNameUnique)
	base.Hooks().OnBeforeUpdate(svc.checkNameUnique)

	return svc
}

// checkNameUnique rejects duplicate manufacturer names.
func (s *Service) checkNameUnique(ctx context.Context, m *Manufacturer) error {
	existing, err := s.repo.FindByName(ctx, m.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != m.ID {
		return apperror.NewDuplicate("manufacturer", "name", m.Name)
	}
	return nil
}
