// Package register_repo provides the PostgreSQL implementation of the stock
// projection repository.
package register_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/stock"
	"tillbox/internal/infrastructure/storage/postgres"
)

// movementSums aggregates the signed stock effect per product. Sales
// subtract, purchases and adjustments apply their stored quantity as-is;
// lines of soft-deleted transactions do not count.
const movementSums = `(
	SELECT ti.product_id,
	       SUM(CASE WHEN t.type = 'sale' THEN -ti.quantity ELSE ti.quantity END) AS on_hand
	FROM transaction_items ti
	JOIN transactions t ON t.id = ti.transaction_id
	WHERE t.deletion_mark = FALSE
	GROUP BY ti.product_id
)`

// StockRepo implements stock.Repository. On-hand quantities are never
// stored; every read sums them from transaction lines.
type StockRepo struct {
	txManager *postgres.TxManager
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

// baseSelect projects one stock row per product: identity, joined lookup
// names, and the computed on-hand quantity. Keeping the aggregate in a
// derived table leaves the outer query flat, so list conditions and sorts
// compose onto it like on any other resource.
func (r *StockRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(
			"p.id", "p.name", "p.barcode",
			"COALESCE(c.name, '') AS category_name",
			"COALESCE(m.name, '') AS manufacturer_name",
			"COALESCE(s.on_hand, 0) AS on_hand",
		).
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		LeftJoin("manufacturers m ON m.id = p.manufacturer_id").
		LeftJoin(movementSums + " s ON s.product_id = p.id")
}

// List returns one page of products with computed on-hand quantities.
func (r *StockRepo) List(ctx context.Context, q listing.Query) (listing.Result[*stock.Item], error) {
	querier := r.txManager.GetQuerier(ctx)
	return postgres.ListPage[*stock.Item](ctx, querier, r.baseSelect(), stock.ListSchema, q)
}

// historySelect projects one movement row per transaction line of a product.
// The quantity comes out signed so the caller sees the applied on-hand
// effect.
func (r *StockRepo) historySelect(productID int64) squirrel.SelectBuilder {
	return postgres.Builder().
		Select(
			"t.created_at", "t.number", "t.type",
			"CASE WHEN t.type = 'sale' THEN -ti.quantity ELSE ti.quantity END AS quantity",
		).
		From("transaction_items ti").
		Join("transactions t ON t.id = ti.transaction_id").
		Where(squirrel.Eq{"ti.product_id": productID})
}

// History returns one page of a product's movements, newest first.
func (r *StockRepo) History(ctx context.Context, productID int64, q listing.Query) (listing.Result[*stock.Movement], error) {
	querier := r.txManager.GetQuerier(ctx)
	return postgres.ListPage[*stock.Movement](ctx, querier, r.historySelect(productID), stock.HistorySchema, q)
}

// Ensure interface compliance
var _ stock.Repository = (*StockRepo)(nil)
