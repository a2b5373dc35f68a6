// Package stock exposes computed on-hand quantities. Stock is never stored;
// it is the sum of signed transaction line quantities per product, so the
// package holds read-only projections rather than entities.
package stock

import "time"

// Item is one row of the stock list: product identity with joined lookup
// names and the computed on-hand quantity.
type Item struct {
	ProductID        int64   `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	Barcode          *string `db:"barcode" json:"barcode,omitempty"`
	CategoryName     string  `db:"category_name" json:"category"`
	ManufacturerName string  `db:"manufacturer_name" json:"manufacture"`

	// OnHand is SUM(signed quantity) over the product's transaction lines,
	// zero when it never moved.
	OnHand int64 `db:"on_hand" json:"stock"`
}

// Movement is one history row: a signed stock change applied by a
// transaction line.
type Movement struct {
	Time   time.Time `db:"created_at" json:"time"`
	Number string    `db:"number" json:"transactionNo"`
	Type   string    `db:"type" json:"type"`

	// Quantity is the signed on-hand effect: negative for sales.
	Quantity int64 `db:"quantity" json:"quantity"`
}
