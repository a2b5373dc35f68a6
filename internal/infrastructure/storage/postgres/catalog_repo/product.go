package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/catalogs/product"
	"tillbox/internal/domain/listing"
	"tillbox/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// productColumns are the real table columns. The entity's joined name fields
// are filled by the list projection only.
var productColumns = []string{
	"id", "deletion_mark", "created_at", "updated_at",
	"name", "barcode", "category_id", "manufacturer_id",
	"purchase_price", "selling_price",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txManager,
			productTable,
			"p",
			product.ListSchema,
			productColumns,
			func() *product.Product { return &product.Product{} },
		),
	}
}

// List joins the lookup names so the search and sort columns of the schema
// resolve, and so rows carry display names.
func (r *ProductRepo) List(ctx context.Context, q listing.Query) (listing.Result[*product.Product], error) {
	base := r.Builder().
		Select(
			"p.id", "p.deletion_mark", "p.created_at", "p.updated_at",
			"p.name", "p.barcode", "p.category_id", "p.manufacturer_id",
			"p.purchase_price", "p.selling_price",
			"c.name AS category_name",
			"m.name AS manufacturer_name",
		).
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		LeftJoin("manufacturers m ON m.id = p.manufacturer_id")

	return postgres.ListPage[*product.Product](ctx, r.Querier(ctx), base, product.ListSchema, q)
}

// FindByBarcode retrieves an active product by barcode.
func (r *ProductRepo) FindByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", barcode)
		}
		return nil, err
	}
	return item, nil
}
