// Package document_repo provides the PostgreSQL implementation of the
// transaction document repository.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/storage/postgres"
)

const (
	transactionsTable     = "transactions"
	transactionItemsTable = "transaction_items"
)

// TransactionRepo implements transaction.Repository.
type TransactionRepo struct {
	txManager *postgres.TxManager
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{txManager: txManager}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *TransactionRepo) Builder() squirrel.StatementBuilderType {
	return postgres.Builder()
}

// baseSelect projects the header columns with the recording user's name
// joined. List filtering, searching, and sorting all run over this shape.
func (r *TransactionRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"t.id", "t.deletion_mark", "t.created_at", "t.updated_at",
			"t.number", "t.type", "t.note", "t.user_id",
			"u.name AS user_name",
		).
		From(transactionsTable + " t").
		LeftJoin("users u ON u.id = t.user_id")
}

// lineSelect projects the table part with product names joined. Soft-deleted
// products keep their rows, so historical documents still render names.
func (r *TransactionRepo) lineSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"ti.id", "ti.transaction_id", "ti.line_no", "ti.product_id",
			"COALESCE(p.name, '') AS product_name",
			"ti.quantity", "ti.price", "ti.amount",
		).
		From(transactionItemsTable + " ti").
		LeftJoin("products p ON p.id = ti.product_id")
}

// Create inserts the document header and writes the generated id back.
func (r *TransactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	q := r.Builder().
		Insert(transactionsTable).
		Columns("number", "type", "note", "user_id", "deletion_mark", "created_at", "updated_at").
		Values(t.Number, t.Type, t.Note, t.UserID, t.DeletionMark, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	t.SetID(newID)
	return nil
}

// SaveLines saves the table part for a stored header (delete existing +
// insert new).
func (r *TransactionRepo) SaveLines(ctx context.Context, transactionID int64, lines []transaction.Line) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + transactionItemsTable + " WHERE transaction_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, transactionID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(transactionItemsTable).
		Columns("transaction_id", "line_no", "product_id", "quantity", "price", "amount")

	for _, line := range lines {
		q = q.Values(transactionID, line.LineNo, line.ProductID, line.Quantity, line.Price, line.Amount)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// GetByID retrieves a header by ID. Soft-deleted rows are returned; the
// service decides how to surface them.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	q := r.baseSelect().Where(squirrel.Eq{"t.id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc transaction.Transaction
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", id)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return &doc, nil
}

// GetLines retrieves the table part of one document ordered by line number.
func (r *TransactionRepo) GetLines(ctx context.Context, transactionID int64) ([]transaction.Line, error) {
	q := r.lineSelect().
		Where(squirrel.Eq{"ti.transaction_id": transactionID}).
		OrderBy("ti.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []transaction.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// LoadLines retrieves the table parts of many documents in one query,
// grouped by transaction id.
func (r *TransactionRepo) LoadLines(ctx context.Context, transactionIDs []int64) (map[int64][]transaction.Line, error) {
	grouped := make(map[int64][]transaction.Line, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return grouped, nil
	}

	q := r.lineSelect().
		Where(squirrel.Eq{"ti.transaction_id": transactionIDs}).
		OrderBy("ti.transaction_id", "ti.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []transaction.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}

	for _, line := range lines {
		grouped[line.TransactionID] = append(grouped[line.TransactionID], line)
	}

	return grouped, nil
}

// List returns one page of headers matching the query plus the total count.
func (r *TransactionRepo) List(ctx context.Context, q listing.Query) (listing.Result[*transaction.Transaction], error) {
	querier := r.txManager.GetQuerier(ctx)
	return postgres.ListPage[*transaction.Transaction](ctx, querier, r.baseSelect(), transaction.ListSchema, q)
}

// Ensure interface compliance
var _ transaction.Repository = (*TransactionRepo)(nil)
