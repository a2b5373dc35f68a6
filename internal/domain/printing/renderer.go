package printing

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/phpdave11/gofpdf"

	"tillbox/internal/core/types"
	"tillbox/internal/domain/transaction"
)

// RendererConfig carries the receipt header.
type RendererConfig struct {
	StoreName    string
	StoreAddress string
}

// ReceiptRenderer renders transaction receipts as PDF documents.
type ReceiptRenderer struct {
	config RendererConfig
}

// NewReceiptRenderer creates a renderer.
func NewReceiptRenderer(config RendererConfig) *ReceiptRenderer {
	if config.StoreName == "" {
		config.StoreName = "Tillbox"
	}
	return &ReceiptRenderer{config: config}
}

// Render produces the receipt PDF for a transaction. Lines must be loaded.
func (r *ReceiptRenderer) Render(doc *transaction.Transaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+doc.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.config.StoreName)
	pdf.Ln(8)
	if r.config.StoreAddress != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, r.config.StoreAddress)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Receipt : "+doc.Number)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date    : "+doc.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Type    : "+doc.Type)
	pdf.Ln(6)
	if doc.UserName != "" {
		pdf.Cell(0, 6, "Cashier : "+doc.UserName)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(90, 7, "Item")
	pdf.Cell(25, 7, "Qty")
	pdf.Cell(35, 7, "Price")
	pdf.Cell(35, 7, "Amount")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	total := types.Zero()
	for _, line := range doc.Lines {
		name := line.ProductName
		if name == "" {
			name = fmt.Sprintf("#%d", line.ProductID)
		}
		pdf.Cell(90, 6, name)
		pdf.Cell(25, 6, strconv.FormatInt(line.Quantity, 10))
		pdf.Cell(35, 6, line.Price.StringFixed(2))
		pdf.Cell(35, 6, line.Amount.StringFixed(2))
		pdf.Ln(6)
		total = total.Add(line.Amount)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+total.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", doc.Number, err)
	}
	return buf.Bytes(), nil
}
