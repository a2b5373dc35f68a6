package printing

import (
	"errors"
	"testing"
	"time"
)

func TestMarkFailed_LinearBackoff(t *testing.T) {
	job := NewPrintJob(1)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	cause := errors.New("out of paper")

	for attempt := 1; attempt < MaxAttempts; attempt++ {
		job.MarkFailed(cause, now)

		if job.Status != StatusQueued {
			t.Fatalf("attempt %d: expected requeue, got %s", attempt, job.Status)
		}
		if job.RetryCount != attempt {
			t.Fatalf("attempt %d: retry count %d", attempt, job.RetryCount)
		}
		want := now.Add(time.Duration(attempt) * time.Minute)
		if job.NextRetryAt == nil || !job.NextRetryAt.Equal(want) {
			t.Fatalf("attempt %d: expected retry at %v, got %v", attempt, want, job.NextRetryAt)
		}
	}

	job.MarkFailed(cause, now)
	if job.Status != StatusFailed {
		t.Errorf("expected terminal failure after %d attempts, got %s", MaxAttempts, job.Status)
	}
	if job.NextRetryAt != nil {
		t.Error("terminal failures must not schedule a retry")
	}
	if job.LastError == nil || *job.LastError != "out of paper" {
		t.Errorf("expected last error preserved, got %v", job.LastError)
	}
}

func TestMarkPrinted_ClearsRetryState(t *testing.T) {
	job := NewPrintJob(1)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	job.MarkFailed(errors.New("jam"), now)
	job.MarkPrinted([]byte("doc"), now)

	if !job.Printed() {
		t.Fatal("expected printed job")
	}
	if job.LastError != nil || job.NextRetryAt != nil {
		t.Error("printed jobs must not carry retry state")
	}
	if job.PrintedAt == nil || !job.PrintedAt.Equal(now) {
		t.Errorf("expected printed_at stamped, got %v", job.PrintedAt)
	}
}
