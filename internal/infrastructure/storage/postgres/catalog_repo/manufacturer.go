package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/catalogs/manufacturer"
	"tillbox/internal/infrastructure/storage/postgres"
)

const manufacturerTable = "manufacturers"

// ManufacturerRepo implements manufacturer.Repository.
type ManufacturerRepo struct {
	*BaseCatalogRepo[*manufacturer.Manufacturer]
}

// NewManufacturerRepo creates a new manufacturer repository.
func NewManufacturerRepo(txManager *postgres.TxManager) *ManufacturerRepo {
	return &ManufacturerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*manufacturer.Manufacturer](
			txManager,
			manufacturerTable,
			"m",
			manufacturer.ListSchema,
			postgres.ExtractDBColumns[manufacturer.Manufacturer](),
			func() *manufacturer.Manufacturer { return &manufacturer.Manufacturer{} },
		),
	}
}

// FindByName retrieves an active manufacturer by exact name, ignoring case.
func (r *ManufacturerRepo) FindByName(ctx context.Context, name string) (*manufacturer.Manufacturer, error) {
	q := r.baseSelect().
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("manufacturer", name)
		}
		return nil, err
	}
	return item, nil
}
