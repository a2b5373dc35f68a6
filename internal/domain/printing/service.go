package printing

import (
	"context"
	"fmt"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/transaction"
	"tillbox/pkg/logger"
)

// TransactionSource resolves the transaction a receipt is printed for.
type TransactionSource interface {
	GetByID(ctx context.Context, id int64) (*transaction.Transaction, error)
}

// Service implements print queue business logic.
type Service struct {
	repo         Repository
	transactions TransactionSource
	codec        *DocumentCodec
}

// NewService creates a print job service.
func NewService(repo Repository, transactions TransactionSource, codec *DocumentCodec) *Service {
	return &Service{repo: repo, transactions: transactions, codec: codec}
}

// Enqueue creates a queued print job for a transaction. The transaction must
// exist; the receipt is rendered later by the worker.
func (s *Service) Enqueue(ctx context.Context, transactionID int64) (*PrintJob, error) {
	if _, err := s.transactions.GetByID(ctx, transactionID); err != nil {
		return nil, err
	}

	job := NewPrintJob(transactionID)
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue print job: %w", err)
	}

	logger.Info(ctx, "print job enqueued",
		"id", job.ID,
		"transaction_id", transactionID)

	return job, nil
}

// GetByID retrieves one print job.
func (s *Service) GetByID(ctx context.Context, id int64) (*PrintJob, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of print jobs.
func (s *Service) List(ctx context.Context, q listing.Query) (listing.Result[*PrintJob], error) {
	return s.repo.List(ctx, q)
}

// Document returns the rendered receipt PDF of a printed job.
func (s *Service) Document(ctx context.Context, id int64) ([]byte, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.Printed() {
		return nil, apperror.NewConflict(
			fmt.Sprintf("print job %d has not been printed (status %s)", id, job.Status))
	}
	return s.codec.Decompress(job.Document)
}
