package dto

import (
	"time"

	"tillbox/internal/core/types"
	"tillbox/internal/domain/transaction"
)

// TransactionLine is the nested product shape of a transaction response.
type TransactionLine struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	Quantity  int64       `json:"quantity"`
	Price     types.Money `json:"price"`
}

// TransactionResponse is the transaction shape shared by list items and the
// detail view: header fields plus the nested products in line order.
type TransactionResponse struct {
	ID            int64             `json:"id"`
	TransactionNo string            `json:"transactionNo"`
	Type          string            `json:"type"`
	Time          time.Time         `json:"time"`
	TotalItems    int64             `json:"totalItems"`
	User          string            `json:"user"`
	Note          string            `json:"note,omitempty"`
	Products      []TransactionLine `json:"products"`
}

// FromTransaction creates the response shape from a document with its lines
// loaded.
func FromTransaction(t *transaction.Transaction) TransactionResponse {
	lines := make([]TransactionLine, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, TransactionLine{
			ProductID: l.ProductID,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}

	return TransactionResponse{
		ID:            t.ID,
		TransactionNo: t.Number,
		Type:          t.Type,
		Time:          t.CreatedAt,
		TotalItems:    t.TotalItems(),
		User:          t.UserName,
		Note:          t.Note,
		Products:      lines,
	}
}

// FromTransactions maps one result page preserving its order.
func FromTransactions(docs []*transaction.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromTransaction(doc))
	}
	return out
}
