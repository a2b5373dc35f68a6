package printing

import (
	"context"
	"time"

	"tillbox/internal/domain/listing"
)

// Repository defines the interface for print job persistence.
type Repository interface {
	// Create inserts a job and writes the generated id back.
	Create(ctx context.Context, job *PrintJob) error

	// GetByID retrieves a job with its transaction number joined.
	GetByID(ctx context.Context, id int64) (*PrintJob, error)

	// List returns one page of jobs matching the query.
	List(ctx context.Context, q listing.Query) (listing.Result[*PrintJob], error)

	// ClaimDue locks and returns up to limit due queued jobs, oldest first.
	// Locked rows are skipped so concurrent workers never claim the same
	// job. Must run inside a transaction; the locks hold until commit.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*PrintJob, error)

	// UpdateOutcome persists the status, document and retry bookkeeping of
	// a claimed job.
	UpdateOutcome(ctx context.Context, job *PrintJob) error

	// PrunePrinted deletes printed jobs older than cutoff and reports how
	// many were removed.
	PrunePrinted(ctx context.Context, cutoff time.Time) (int64, error)
}

// ListSchema declares the list-query contract for print jobs. The status
// filter reuses the "type" parameter name of the transaction list.
var ListSchema = &listing.Schema{
	Resource:       "print job",
	SortByParam:    "sort_by",
	SortOrderParam: "sort_order",
	TypeParam:      "type",
	Types:          []string{"all", StatusQueued, StatusPrinted, StatusFailed},
	DefaultType:    "all",
	TypeColumn:     "pj.status",
	Search:         []string{"t.number"},
	Sorts: []listing.SortKey{
		{Key: "created", Expr: "pj.created_at"},
		{Key: "status", Expr: "pj.status"},
	},
	DefaultSort:  "created",
	DefaultOrder: listing.OrderDesc,
	TieBreak:     "pj.id",
}
