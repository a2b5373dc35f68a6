package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/catalogs/category"
	"tillbox/internal/infrastructure/storage/postgres"
)

const categoryTable = "categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*category.Category](
			txManager,
			categoryTable,
			"c",
			category.ListSchema,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// FindByName retrieves an active category by exact name, ignoring case.
func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*category.Category, error) {
	q := r.baseSelect().
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("category", name)
		}
		return nil, err
	}
	return item, nil
}
