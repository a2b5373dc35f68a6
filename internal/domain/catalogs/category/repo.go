package category

import (
	"context"

	"tillbox/internal/domain"
	"tillbox/internal/domain/listing"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]

	// FindByName retrieves a category by name (case-insensitive,
	// soft-deleted rows excluded).
	FindByName(ctx context.Context, name string) (*Category, error)
}

// ListSchema declares the list-query contract for categories.
var ListSchema = &listing.Schema{
	Resource:       "category",
	SortByParam:    "sort_by",
	SortOrderParam: "sort_order",
	Search:         []string{"c.name"},
	Sorts: []listing.SortKey{
		{Key: "name", Expr: "c.name"},
		{Key: "created", Expr: "c.created_at"},
	},
	DefaultSort:  "name",
	DefaultOrder: listing.OrderAsc,
	TieBreak:     "c.id",
	ScopeColumn:  "c.deletion_mark",
}
