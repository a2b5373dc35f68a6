package stock

import (
	"context"
	"testing"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/listing"
)

// Mock objects
type fakeRepo struct {
	items     listing.Result[*Item]
	movements listing.Result[*Movement]

	historyCalls int
}

func (r *fakeRepo) List(ctx context.Context, q listing.Query) (listing.Result[*Item], error) {
	return r.items, nil
}

func (r *fakeRepo) History(ctx context.Context, productID int64, q listing.Query) (listing.Result[*Movement], error) {
	r.historyCalls++
	return r.movements, nil
}

type fixedProducts struct{ known map[int64]bool }

func (f fixedProducts) Exists(ctx context.Context, id int64) (bool, error) {
	return f.known[id], nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, fixedProducts{known: map[int64]bool{1: true}})
}

func TestHistory(t *testing.T) {
	repo := &fakeRepo{
		movements: listing.Result[*Movement]{
			Rows:  []*Movement{{Number: "TRX-2026-00001", Type: "sale", Quantity: -2}},
			Total: 1,
		},
	}
	svc := newTestService(repo)

	res, err := svc.History(context.Background(), 1, listing.Query{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Rows) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Rows[0].Quantity != -2 {
		t.Errorf("expected signed quantity -2, got %d", res.Rows[0].Quantity)
	}
}

func TestHistory_UnknownProduct(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.History(context.Background(), 99, listing.Query{Page: 1, Limit: 10})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.historyCalls != 0 {
		t.Error("history must not be queried for unknown products")
	}
}

func TestHistorySchema_PageOnly(t *testing.T) {
	q, err := HistorySchema.Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.SortKey != "time" || q.Order != listing.OrderDesc {
		t.Errorf("expected newest-first default, got %s %s", q.SortKey, q.Order)
	}

	spec, err := HistorySchema.Resolve(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Clauses) != 2 || spec.Clauses[0] != "t.created_at DESC" {
		t.Errorf("unexpected order clauses: %v", spec.Clauses)
	}
}
