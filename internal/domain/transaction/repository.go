package transaction

import (
	"context"

	"tillbox/internal/domain/listing"
)

// Repository defines the interface for transaction persistence. Headers and
// lines are stored separately; the service composes them inside one database
// transaction.
type Repository interface {
	// Create inserts the document header and writes the generated id back.
	Create(ctx context.Context, t *Transaction) error

	// SaveLines inserts the table part for a stored header.
	SaveLines(ctx context.Context, transactionID int64, lines []Line) error

	// GetByID retrieves a header with the recording user's name joined.
	// Lines are not loaded.
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// GetLines retrieves the table part of one document with product
	// names joined, ordered by line number.
	GetLines(ctx context.Context, transactionID int64) ([]Line, error)

	// LoadLines retrieves the table parts of many documents in one query,
	// grouped by transaction id. Documents without lines are absent from
	// the map.
	LoadLines(ctx context.Context, transactionIDs []int64) (map[int64][]Line, error)

	// List returns one page of headers matching the query plus the total
	// count over the same predicate.
	List(ctx context.Context, q listing.Query) (listing.Result[*Transaction], error)
}

// ListSchema declares the list-query contract for transactions. The sort
// parameters are camelCase; that is the published till contract, unlike the
// snake_case inventory lists.
var ListSchema = &listing.Schema{
	Resource:       "transaction",
	SortByParam:    "sortBy",
	SortOrderParam: "sortOrder",
	TypeParam:      "type",
	Types:          []string{"all", TypeSale, TypePurchase, TypeAdjustment},
	DefaultType:    "all",
	TypeColumn:     "t.type",
	Search:         []string{"t.number", "u.name"},
	Sorts: []listing.SortKey{
		{Key: "time", Expr: "t.created_at"},
		{Key: "transactionNo", Expr: "t.number"},
		{Key: "type", Expr: "t.type"},
		{Key: "user", Expr: "u.name"},
	},
	DefaultSort:  "time",
	DefaultOrder: listing.OrderDesc,
	TieBreak:     "t.id",
	ScopeColumn:  "t.deletion_mark",
}
