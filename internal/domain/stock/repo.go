package stock

import (
	"context"

	"tillbox/internal/domain/listing"
)

// Repository defines the interface for stock projections.
type Repository interface {
	// List returns one page of products with computed on-hand quantities.
	List(ctx context.Context, q listing.Query) (listing.Result[*Item], error)

	// History returns one page of a product's movements.
	History(ctx context.Context, productID int64, q listing.Query) (listing.Result[*Movement], error)
}

// ListSchema declares the list-query contract for the stock view. It mirrors
// the product list except that sorting by "stock" orders by the computed
// quantity.
var ListSchema = &listing.Schema{
	Resource:       "stock",
	SortByParam:    "sort_by",
	SortOrderParam: "sort_order",
	Filters: []listing.FilterParam{
		{Param: "category_id", Column: "p.category_id"},
		{Param: "manufacturer_id", Column: "p.manufacturer_id"},
	},
	Search: []string{"p.name", "p.barcode", "c.name", "m.name"},
	Sorts: []listing.SortKey{
		{Key: "name", Expr: "p.name"},
		{Key: "category", Expr: "c.name"},
		{Key: "manufacture", Expr: "m.name"},
		{Key: "stock", Expr: "on_hand"},
	},
	DefaultSort:  "name",
	DefaultOrder: listing.OrderAsc,
	TieBreak:     "p.id",
	ScopeColumn:  "p.deletion_mark",
}

// HistorySchema declares the movement history contract: page and limit only,
// always newest first.
var HistorySchema = &listing.Schema{
	Resource: "stock history",
	Sorts: []listing.SortKey{
		{Key: "time", Expr: "t.created_at"},
	},
	DefaultSort:  "time",
	DefaultOrder: listing.OrderDesc,
	TieBreak:     "ti.id",
	ScopeColumn:  "t.deletion_mark",
}
