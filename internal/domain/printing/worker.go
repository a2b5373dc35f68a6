package printing

import (
	"context"
	"time"

	"tillbox/internal/core/tx"
	"tillbox/internal/domain/transaction"
	"tillbox/pkg/logger"
)

// WorkerConfig controls the print worker's polling.
type WorkerConfig struct {
	PollInterval    time.Duration
	CleanupInterval time.Duration
	BatchSize       int
}

// DefaultWorkerConfig returns the standard polling configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:    2 * time.Second,
		CleanupInterval: time.Hour,
		BatchSize:       20,
	}
}

// Renderer produces the receipt document for a transaction.
type Renderer interface {
	Render(doc *transaction.Transaction) ([]byte, error)
}

// Worker drains the print queue: it claims due jobs, renders their receipts
// and stores the outcome. It is the only long-lived loop in the system and
// exits when its context is cancelled.
type Worker struct {
	repo         Repository
	transactions TransactionSource
	renderer     Renderer
	codec        *DocumentCodec
	txManager    tx.Manager
	config       WorkerConfig
	log          *logger.Logger
}

// NewWorker creates a print worker.
func NewWorker(
	repo Repository,
	transactions TransactionSource,
	renderer Renderer,
	codec *DocumentCodec,
	txManager tx.Manager,
	config WorkerConfig,
	log *logger.Logger,
) *Worker {
	def := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}

	return &Worker{
		repo:         repo,
		transactions: transactions,
		renderer:     renderer,
		codec:        codec,
		txManager:    txManager,
		config:       config,
		log:          log.WithComponent("print-worker"),
	}
}

// Run polls the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(w.config.CleanupInterval)
	defer cleanupTicker.Stop()

	w.log.Infow("print worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("print worker stopped")
			return
		case <-ticker.C:
			if n, err := w.ProcessBatch(ctx); err != nil {
				w.log.Errorw("print batch failed", "error", err)
			} else if n > 0 {
				w.log.Infow("printed receipts", "count", n)
			}
		case <-cleanupTicker.C:
			w.prune(ctx)
		}
	}
}

// ProcessBatch claims one batch of due jobs and processes them. Claim and
// outcomes commit together; the row locks keep concurrent workers off the
// same jobs until then. Returns the number of jobs that printed.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	printed := 0
	err := w.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		jobs, err := w.repo.ClaimDue(ctx, time.Now().UTC(), w.config.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if w.processJob(ctx, job) {
				printed++
			}
			if err := w.repo.UpdateOutcome(ctx, job); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return printed, nil
}

// processJob renders one claimed job and records the outcome on it.
func (w *Worker) processJob(ctx context.Context, job *PrintJob) bool {
	now := time.Now().UTC()

	doc, err := w.transactions.GetByID(ctx, job.TransactionID)
	if err != nil {
		job.MarkFailed(err, now)
		return false
	}

	pdf, err := w.renderer.Render(doc)
	if err != nil {
		job.MarkFailed(err, now)
		w.log.Warnw("receipt render failed",
			"job_id", job.ID,
			"transaction_id", job.TransactionID,
			"attempt", job.RetryCount,
			"error", err)
		return false
	}

	job.MarkPrinted(w.codec.Compress(pdf), now)
	return true
}

func (w *Worker) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-RetentionPeriod)

	removed, err := w.repo.PrunePrinted(ctx, cutoff)
	if err != nil {
		w.log.Errorw("prune printed jobs failed", "error", err)
		return
	}
	if removed > 0 {
		w.log.Infow("pruned printed jobs", "count", removed)
	}
}
