package manufacturer

import (
	"context"

	"tillbox/internal/domain"
	"tillbox/internal/domain/listing"
)

// Repository defines the interface for Manufacturer persistence.
type Repository interface {
	domain.CatalogRepository[*Manufacturer]

	// FindByName retrieves a manufacturer by name (case-insensitive,
	// soft-deleted rows excluded).
	FindByName(ctx context.Context, name string) (*Manufacturer, error)
}

// ListSchema declares the list-query contract for manufacturers.
var ListSchema = &listing.Schema{
	Resource:       "manufacturer",
	SortByParam:    "sort_by",
	SortOrderParam: "sort_order",
	Search:         []string{"m.name"},
	Sorts: []listing.SortKey{
		{Key: "name", Expr: "m.name"},
		{Key: "created", Expr: "m.created_at"},
	},
	DefaultSort:  "name",
	DefaultOrder: listing.OrderAsc,
	TieBreak:     "m.id",
	ScopeColumn:  "m.deletion_mark",
}
