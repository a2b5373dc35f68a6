// Package product provides the Product catalog.
// Products are the sellable items tracked by stock and transactions.
package product

import (
	"context"
	"strings"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/entity"
	"tillbox/internal/core/types"
)

// Product represents a sellable item.
type Product struct {
	entity.Base

	Name string `db:"name" json:"name"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// CategoryID is the reference to the product category
	CategoryID int64 `db:"category_id" json:"categoryId"`

	// ManufacturerID is the reference to the manufacturer
	ManufacturerID int64 `db:"manufacturer_id" json:"manufacturerId"`

	// PurchasePrice is the unit cost when buying stock
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the unit price when selling
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// CategoryName and ManufacturerName are loaded from joins on list
	// reads; they are not product columns.
	CategoryName     string `db:"category_name" json:"category,omitempty"`
	ManufacturerName string `db:"manufacturer_name" json:"manufacture,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(name string, categoryID, manufacturerID int64) *Product {
	return &Product{
		Base:           entity.NewBase(),
		Name:           strings.TrimSpace(name),
		CategoryID:     categoryID,
		ManufacturerID: manufacturerID,
		PurchasePrice:  types.Zero(),
		SellingPrice:   types.Zero(),
	}
}

// SetBarcode normalizes and stores the barcode. Empty input clears it.
func (p *Product) SetBarcode(barcode string) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		p.Barcode = nil
		return
	}
	p.Barcode = &barcode
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	var fields []apperror.FieldError
	if p.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if p.CategoryID <= 0 {
		fields = append(fields, apperror.FieldError{Field: "categoryId", Message: "is required"})
	}
	if p.ManufacturerID <= 0 {
		fields = append(fields, apperror.FieldError{Field: "manufacturerId", Message: "is required"})
	}
	if p.PurchasePrice.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "purchasePrice", Message: "must not be negative"})
	}
	if p.SellingPrice.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "sellingPrice", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationFields(fields...)
	}
	return nil
}
