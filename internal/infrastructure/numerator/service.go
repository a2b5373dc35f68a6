// Package numerator issues sequential document numbers backed by the
// sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"time"

	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/storage/postgres"
)

// nextSQL bumps the per-prefix, per-year counter. UPSERT + RETURNING keeps
// concurrent callers from ever seeing the same value.
const nextSQL = `
INSERT INTO sys_sequences (sequence_type, year, current_val)
VALUES ($1, $2, 1)
ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = sys_sequences.current_val + 1
RETURNING current_val`

// Service implements document auto-numbering. It runs on the caller's
// transaction when one is open, so a rolled-back document never burns a
// number. The counter row stays locked until that transaction ends, which
// serializes concurrent creates of the same document type within a year.
type Service struct {
	txManager *postgres.TxManager
	now       func() time.Time
}

var _ transaction.NumberGenerator = (*Service)(nil)

// New creates a numerator service.
func New(txManager *postgres.TxManager) *Service {
	return &Service{
		txManager: txManager,
		now:       time.Now,
	}
}

// Next issues the next number for the prefix: PREFIX-YEAR-NNNNN, with the
// counter resetting each year.
func (s *Service) Next(ctx context.Context, prefix string) (string, error) {
	year := s.now().UTC().Year()

	var num int64
	if err := s.txManager.GetQuerier(ctx).QueryRow(ctx, nextSQL, prefix, year).Scan(&num); err != nil {
		return "", fmt.Errorf("next %s number: %w", prefix, err)
	}

	return Format(prefix, year, num), nil
}

// Format renders a document number (e.g. TRX-2025-00042).
func Format(prefix string, year int, num int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, num)
}
