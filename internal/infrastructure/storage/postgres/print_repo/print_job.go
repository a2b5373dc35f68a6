// Package print_repo provides the PostgreSQL implementation of the print
// job repository.
package print_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/printing"
	"tillbox/internal/infrastructure/storage/postgres"
)

const printJobsTable = "print_jobs"

// PrintJobRepo implements printing.Repository.
type PrintJobRepo struct {
	txManager *postgres.TxManager
}

// NewPrintJobRepo creates a new print job repository.
func NewPrintJobRepo(txManager *postgres.TxManager) *PrintJobRepo {
	return &PrintJobRepo{txManager: txManager}
}

// baseSelect projects the job columns with the transaction number joined.
// The stored document stays out of list reads; it is fetched by id only.
func (r *PrintJobRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(
			"pj.id", "pj.transaction_id", "pj.status",
			"pj.retry_count", "pj.last_error", "pj.next_retry_at",
			"pj.created_at", "pj.printed_at",
			"COALESCE(t.number, '') AS transaction_number",
		).
		From(printJobsTable + " pj").
		LeftJoin("transactions t ON t.id = pj.transaction_id")
}

// Create inserts a queued job and writes the generated id back.
func (r *PrintJobRepo) Create(ctx context.Context, job *printing.PrintJob) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO print_jobs (transaction_id, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		job.TransactionID, job.Status, job.RetryCount, job.CreatedAt,
	).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("insert print job: %w", err)
	}

	return nil
}

// GetByID retrieves a job including its stored document.
func (r *PrintJobRepo) GetByID(ctx context.Context, id int64) (*printing.PrintJob, error) {
	q := r.baseSelect().
		Column("pj.document").
		Where(squirrel.Eq{"pj.id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var job printing.PrintJob
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &job, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("print job", id)
		}
		return nil, fmt.Errorf("get print job: %w", err)
	}

	return &job, nil
}

// List returns one page of jobs matching the query.
func (r *PrintJobRepo) List(ctx context.Context, q listing.Query) (listing.Result[*printing.PrintJob], error) {
	querier := r.txManager.GetQuerier(ctx)
	return postgres.ListPage[*printing.PrintJob](ctx, querier, r.baseSelect(), printing.ListSchema, q)
}

// ClaimDue locks and returns up to limit due queued jobs, oldest first.
// SKIP LOCKED keeps concurrent workers off each other's claims; the caller's
// transaction holds the locks until commit.
func (r *PrintJobRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*printing.PrintJob, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `
		SELECT id, transaction_id, status, retry_count, last_error,
		       next_retry_at, created_at, printed_at
		FROM print_jobs
		WHERE status = $1
		  AND (next_retry_at IS NULL OR next_retry_at <= $2)
		ORDER BY created_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	var jobs []*printing.PrintJob
	if err := pgxscan.Select(ctx, q, &jobs, query, printing.StatusQueued, now, limit); err != nil {
		return nil, fmt.Errorf("claim print jobs: %w", err)
	}

	return jobs, nil
}

// UpdateOutcome persists the status, document and retry bookkeeping of a
// claimed job.
func (r *PrintJobRepo) UpdateOutcome(ctx context.Context, job *printing.PrintJob) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		UPDATE print_jobs SET
			status = $2,
			document = $3,
			retry_count = $4,
			last_error = $5,
			next_retry_at = $6,
			printed_at = $7
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		job.ID, job.Status, job.Document, job.RetryCount,
		job.LastError, job.NextRetryAt, job.PrintedAt,
	)
	if err != nil {
		return fmt.Errorf("update print job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("print job", job.ID)
	}

	return nil
}

// PrunePrinted deletes printed jobs older than cutoff.
func (r *PrintJobRepo) PrunePrinted(ctx context.Context, cutoff time.Time) (int64, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `DELETE FROM print_jobs WHERE status = $1 AND printed_at < $2`

	result, err := q.Exec(ctx, query, printing.StatusPrinted, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune print jobs: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure interface compliance
var _ printing.Repository = (*PrintJobRepo)(nil)
