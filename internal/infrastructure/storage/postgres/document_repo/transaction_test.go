package document_repo

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"

	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/storage/postgres"
)

// normalize collapses whitespace so multi-line builder fragments compare as
// one line.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestList_SQL(t *testing.T) {
	repo := NewTransactionRepo(nil)

	countQ, pageQ, err := postgres.PageQueries(repo.baseSelect(), transaction.ListSchema, listing.Query{
		Page:    1,
		Limit:   20,
		Search:  "smith",
		Type:    transaction.TypeSale,
		SortKey: "transactionNo",
		Order:   listing.OrderAsc,
	})
	if err != nil {
		t.Fatalf("PageQueries failed: %v", err)
	}

	sql, args, err := pageQ.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT t.id, t.deletion_mark, t.created_at, t.updated_at, " +
		"t.number, t.type, t.note, t.user_id, " +
		"u.name AS user_name " +
		"FROM transactions t " +
		"LEFT JOIN users u ON u.id = t.user_id " +
		"WHERE (t.deletion_mark = $1 AND (t.number ILIKE $2 OR u.name ILIKE $3) AND t.type = $4) " +
		"ORDER BY t.number ASC, t.id ASC LIMIT 20"
	if got := normalize(sql); got != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, got)
	}

	want := []any{false, "%smith%", "%smith%", "sale"}
	if len(args) != len(want) {
		t.Fatalf("Args mismatch\nwant: %v\ngot:  %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("Args mismatch at %d\nwant: %v\ngot:  %v", i, want[i], args[i])
		}
	}

	countSQL, _, err := countQ.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.HasPrefix(countSQL, "SELECT COUNT(*) FROM (SELECT") {
		t.Errorf("count query does not wrap the base select: %s", countSQL)
	}
}

func TestList_TypeAllAddsNoPredicate(t *testing.T) {
	repo := NewTransactionRepo(nil)

	_, pageQ, err := postgres.PageQueries(repo.baseSelect(), transaction.ListSchema, listing.Query{
		Page:    2,
		Limit:   10,
		Type:    "all",
		SortKey: "time",
		Order:   listing.OrderDesc,
	})
	if err != nil {
		t.Fatalf("PageQueries failed: %v", err)
	}

	sql, args, err := pageQ.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT t.id, t.deletion_mark, t.created_at, t.updated_at, " +
		"t.number, t.type, t.note, t.user_id, " +
		"u.name AS user_name " +
		"FROM transactions t " +
		"LEFT JOIN users u ON u.id = t.user_id " +
		"WHERE (t.deletion_mark = $1) " +
		"ORDER BY t.created_at DESC, t.id ASC LIMIT 10 OFFSET 10"
	if got := normalize(sql); got != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, got)
	}

	if len(args) != 1 || args[0] != false {
		t.Errorf("Args mismatch\nwant: [false]\ngot:  %v", args)
	}
}

// LoadLines fetches the table parts of a whole page in one round trip. The
// builder must expand the id slice into an IN list of bound parameters.
func TestLineSelect_BatchSQL(t *testing.T) {
	repo := NewTransactionRepo(nil)

	q := repo.lineSelect().
		Where(squirrel.Eq{"ti.transaction_id": []int64{4, 9}}).
		OrderBy("ti.transaction_id", "ti.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT ti.id, ti.transaction_id, ti.line_no, ti.product_id, " +
		"COALESCE(p.name, '') AS product_name, " +
		"ti.quantity, ti.price, ti.amount " +
		"FROM transaction_items ti " +
		"LEFT JOIN products p ON p.id = ti.product_id " +
		"WHERE ti.transaction_id IN ($1,$2) " +
		"ORDER BY ti.transaction_id, ti.line_no"
	if got := normalize(sql); got != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, got)
	}

	if len(args) != 2 || args[0] != int64(4) || args[1] != int64(9) {
		t.Errorf("Args mismatch\nwant: [4 9]\ngot:  %v", args)
	}
}
