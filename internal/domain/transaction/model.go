// Package transaction provides the inventory movement document.
// Every stock change flows through a transaction: sales and purchases at
// the till, and manual adjustments.
package transaction

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/entity"
	"tillbox/internal/core/types"
)

// Transaction types.
const (
	TypeSale       = "sale"
	TypePurchase   = "purchase"
	TypeAdjustment = "adjustment"
)

// ValidType reports whether t is a known transaction type.
func ValidType(t string) bool {
	return t == TypeSale || t == TypePurchase || t == TypeAdjustment
}

// Transaction represents an inventory movement document.
type Transaction struct {
	entity.Base

	// Number is the generated document number (TRX-YYYY-NNNNN)
	Number string `db:"number" json:"transactionNo"`

	Type string `db:"type" json:"type"`
	Note string `db:"note" json:"note,omitempty"`

	// UserID references the user who recorded the document
	UserID int64 `db:"user_id" json:"-"`

	// UserName is loaded from the users join on reads
	UserName string `db:"user_name" json:"user,omitempty"`

	// Lines is the document table part
	Lines []Line `db:"-" json:"products,omitempty"`
}

// Line represents one product movement within a transaction.
type Line struct {
	ID            int64 `db:"id" json:"-"`
	TransactionID int64 `db:"transaction_id" json:"-"`
	LineNo        int   `db:"line_no" json:"-"`

	ProductID int64 `db:"product_id" json:"productId"`

	// ProductName is loaded from the products join on reads
	ProductName string `db:"product_name" json:"name,omitempty"`

	// Quantity is positive for sale/purchase; adjustments may be negative
	Quantity int64 `db:"quantity" json:"quantity"`

	// Price is the unit price applied to this line
	Price types.Money `db:"price" json:"price"`

	// Amount is price * quantity
	Amount types.Money `db:"amount" json:"amount"`
}

// CreateItem is one requested product movement. Price is optional; when nil
// the product's catalog price applies (selling for sales, purchase
// otherwise).
type CreateItem struct {
	ProductID int64        `json:"productId"`
	Quantity  int64        `json:"quantity"`
	Price     *types.Money `json:"price,omitempty"`
}

// CreateRequest is the payload for recording a transaction.
type CreateRequest struct {
	Type  string       `json:"type"`
	Note  string       `json:"note"`
	Items []CreateItem `json:"items"`
}

// NewTransaction creates a transaction document for a user.
func NewTransaction(txType, note string, userID int64) *Transaction {
	return &Transaction{
		Base:   entity.NewBase(),
		Type:   txType,
		Note:   note,
		UserID: userID,
		Lines:  make([]Line, 0),
	}
}

// AddLine appends a product movement and computes its amount.
func (t *Transaction) AddLine(productID int64, productName string, quantity int64, price types.Money) {
	t.Lines = append(t.Lines, Line{
		LineNo:      len(t.Lines) + 1,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		Price:       price,
		Amount:      price.Mul(decimal.NewFromInt(quantity)),
	})
}

// TotalItems returns the sum of absolute line quantities.
func (t *Transaction) TotalItems() int64 {
	var total int64
	for _, line := range t.Lines {
		if line.Quantity < 0 {
			total -= line.Quantity
			continue
		}
		total += line.Quantity
	}
	return total
}

// StockDelta returns the signed on-hand effect of a line: sales subtract,
// purchases add, adjustments apply their signed quantity as-is.
func (t *Transaction) StockDelta(line Line) int64 {
	if t.Type == TypeSale {
		return -line.Quantity
	}
	return line.Quantity
}

// Validate implements entity.Validatable. All violations are reported
// together.
func (t *Transaction) Validate(ctx context.Context) error {
	var fields []apperror.FieldError

	if !ValidType(t.Type) {
		fields = append(fields, apperror.FieldError{
			Field:   "type",
			Message: "must be one of: sale, purchase, adjustment",
		})
	}
	if t.UserID <= 0 {
		fields = append(fields, apperror.FieldError{Field: "userId", Message: "is required"})
	}
	if len(t.Lines) == 0 {
		fields = append(fields, apperror.FieldError{Field: "items", Message: "must not be empty"})
	}

	for i, line := range t.Lines {
		if line.ProductID <= 0 {
			fields = append(fields, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: "is required",
			})
		}
		if line.Quantity == 0 {
			fields = append(fields, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must not be zero",
			})
		} else if line.Quantity < 0 && t.Type != TypeAdjustment {
			fields = append(fields, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be positive",
			})
		}
		if line.Price.IsNegative() {
			fields = append(fields, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "must not be negative",
			})
		}
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields...)
	}
	return nil
}
