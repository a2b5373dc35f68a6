package printing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tillbox/internal/domain/transaction"
	"tillbox/pkg/logger"
)

type failingRenderer struct{ err error }

func (r failingRenderer) Render(doc *transaction.Transaction) ([]byte, error) {
	return nil, r.err
}

func newTestWorker(t *testing.T, repo *fakeRepo, renderer Renderer) *Worker {
	t.Helper()
	codec, err := NewDocumentCodec()
	if err != nil {
		t.Fatalf("create codec: %v", err)
	}
	return NewWorker(repo, receiptFixture(), renderer, codec, passthroughTx{},
		DefaultWorkerConfig(), logger.Default())
}

func queuedJob(repo *fakeRepo, transactionID int64) *PrintJob {
	job := NewPrintJob(transactionID)
	repo.nextID++
	job.ID = repo.nextID
	repo.jobs[job.ID] = job
	repo.due = append(repo.due, job)
	return job
}

func TestProcessBatch_PrintsQueuedJob(t *testing.T) {
	repo := newFakeRepo()
	job := queuedJob(repo, 1)
	worker := newTestWorker(t, repo, NewReceiptRenderer(RendererConfig{StoreName: "Test Till"}))

	printed, err := worker.ProcessBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if printed != 1 {
		t.Fatalf("expected 1 printed, got %d", printed)
	}
	if !job.Printed() {
		t.Fatalf("expected printed job, got %s", job.Status)
	}

	pdf, err := worker.codec.Decompress(job.Document)
	if err != nil {
		t.Fatalf("stored document does not decompress: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("stored document is not a PDF")
	}
}

func TestProcessBatch_FailureRequeuesWithBackoff(t *testing.T) {
	repo := newFakeRepo()
	job := queuedJob(repo, 1)
	worker := newTestWorker(t, repo, failingRenderer{err: errors.New("printer offline")})

	printed, err := worker.ProcessBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if printed != 0 {
		t.Fatalf("expected 0 printed, got %d", printed)
	}
	if job.Status != StatusQueued || job.RetryCount != 1 {
		t.Errorf("expected requeue with retry count 1, got %s/%d", job.Status, job.RetryCount)
	}
	if job.NextRetryAt == nil {
		t.Error("expected a scheduled retry")
	}
}

func TestProcessBatch_TerminalAfterMaxAttempts(t *testing.T) {
	repo := newFakeRepo()
	job := queuedJob(repo, 1)
	job.RetryCount = MaxAttempts - 1
	worker := newTestWorker(t, repo, failingRenderer{err: errors.New("printer offline")})

	if _, err := worker.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusFailed {
		t.Errorf("expected terminal failure, got %s", job.Status)
	}
}

func TestProcessBatch_MissingTransactionCountsAsFailure(t *testing.T) {
	repo := newFakeRepo()
	job := queuedJob(repo, 404)
	worker := newTestWorker(t, repo, NewReceiptRenderer(RendererConfig{}))

	if _, err := worker.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusQueued || job.RetryCount != 1 {
		t.Errorf("expected requeue, got %s/%d", job.Status, job.RetryCount)
	}
}
