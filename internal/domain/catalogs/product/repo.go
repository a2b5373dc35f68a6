package product

import (
	"context"

	"tillbox/internal/domain"
	"tillbox/internal/domain/listing"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindByBarcode retrieves a product by barcode (soft-deleted rows
	// excluded).
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
}

// ListSchema declares the list-query contract for products. Search and the
// category/manufacture sort keys read the joined lookup tables.
var ListSchema = &listing.Schema{
	Resource:       "product",
	SortByParam:    "sort_by",
	SortOrderParam: "sort_order",
	Filters: []listing.FilterParam{
		{Param: "category_id", Column: "p.category_id"},
		{Param: "manufacturer_id", Column: "p.manufacturer_id"},
	},
	Search: []string{"p.name", "p.barcode", "c.name", "m.name"},
	Sorts: []listing.SortKey{
		{Key: "name", Expr: "p.name"},
		{Key: "price", Expr: "p.selling_price"},
		{Key: "category", Expr: "c.name"},
		{Key: "manufacture", Expr: "m.name"},
	},
	DefaultSort:  "name",
	DefaultOrder: listing.OrderAsc,
	TieBreak:     "p.id",
	ScopeColumn:  "p.deletion_mark",
}
