// Package printing implements the receipt print queue: jobs are enqueued by
// the API, rendered and stored by the background worker, and served back as
// PDF documents.
package printing

import (
	"time"
)

// Print job statuses.
const (
	StatusQueued  = "queued"
	StatusPrinted = "printed"
	StatusFailed  = "failed"
)

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	return s == StatusQueued || s == StatusPrinted || s == StatusFailed
}

const (
	// MaxAttempts is the number of render attempts before a job fails
	// terminally.
	MaxAttempts = 5

	// RetentionPeriod is how long printed jobs are kept before pruning.
	RetentionPeriod = 30 * 24 * time.Hour
)

// PrintJob is one receipt render request. Document holds the zstd-compressed
// PDF once the job has printed.
type PrintJob struct {
	ID            int64  `db:"id" json:"id"`
	TransactionID int64  `db:"transaction_id" json:"transactionId"`
	Status        string `db:"status" json:"status"`
	Document      []byte `db:"document" json:"-"`

	RetryCount  int        `db:"retry_count" json:"retryCount"`
	LastError   *string    `db:"last_error" json:"lastError,omitempty"`
	NextRetryAt *time.Time `db:"next_retry_at" json:"-"`

	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	PrintedAt *time.Time `db:"printed_at" json:"printedAt,omitempty"`

	// TransactionNumber is loaded from the transactions join on reads
	TransactionNumber string `db:"transaction_number" json:"transactionNo,omitempty"`
}

// NewPrintJob creates a queued job for a transaction.
func NewPrintJob(transactionID int64) *PrintJob {
	return &PrintJob{
		TransactionID: transactionID,
		Status:        StatusQueued,
		CreatedAt:     time.Now().UTC(),
	}
}

// MarkPrinted stores the compressed document and stamps completion.
func (j *PrintJob) MarkPrinted(document []byte, now time.Time) {
	j.Status = StatusPrinted
	j.Document = document
	j.PrintedAt = &now
	j.LastError = nil
	j.NextRetryAt = nil
}

// MarkFailed records a render failure. The job re-queues with linear backoff
// (retry count in minutes) until MaxAttempts, then fails terminally.
func (j *PrintJob) MarkFailed(cause error, now time.Time) {
	j.RetryCount++
	msg := cause.Error()
	j.LastError = &msg

	if j.RetryCount >= MaxAttempts {
		j.Status = StatusFailed
		j.NextRetryAt = nil
		return
	}

	j.Status = StatusQueued
	next := now.Add(time.Duration(j.RetryCount) * time.Minute)
	j.NextRetryAt = &next
}

// Printed reports whether the job holds a stored document.
func (j *PrintJob) Printed() bool {
	return j.Status == StatusPrinted && len(j.Document) > 0
}
