package register_repo

import (
	"strings"
	"testing"

	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/stock"
	"tillbox/internal/infrastructure/storage/postgres"
)

// normalize collapses whitespace so multi-line builder fragments compare as
// one line.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestList_SQL(t *testing.T) {
	repo := NewStockRepo(nil)

	countQ, pageQ, err := postgres.PageQueries(repo.baseSelect(), stock.ListSchema, listing.Query{
		Page:    1,
		Limit:   10,
		Filters: []listing.Filter{{Column: "p.category_id", Value: 3}},
		SortKey: "stock",
		Order:   listing.OrderDesc,
	})
	if err != nil {
		t.Fatalf("PageQueries failed: %v", err)
	}

	sql, args, err := pageQ.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT p.id, p.name, p.barcode, " +
		"COALESCE(c.name, '') AS category_name, " +
		"COALESCE(m.name, '') AS manufacturer_name, " +
		"COALESCE(s.on_hand, 0) AS on_hand " +
		"FROM products p " +
		"LEFT JOIN categories c ON c.id = p.category_id " +
		"LEFT JOIN manufacturers m ON m.id = p.manufacturer_id " +
		"LEFT JOIN ( SELECT ti.product_id, " +
		"SUM(CASE WHEN t.type = 'sale' THEN -ti.quantity ELSE ti.quantity END) AS on_hand " +
		"FROM transaction_items ti " +
		"JOIN transactions t ON t.id = ti.transaction_id " +
		"WHERE t.deletion_mark = FALSE " +
		"GROUP BY ti.product_id ) s ON s.product_id = p.id " +
		"WHERE (p.deletion_mark = $1 AND p.category_id = $2) " +
		"ORDER BY on_hand DESC, p.id ASC LIMIT 10"
	if got := normalize(sql); got != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, got)
	}

	if len(args) != 2 || args[0] != false || args[1] != int64(3) {
		t.Errorf("Args mismatch\nwant: [false 3]\ngot:  %v", args)
	}

	countSQL, _, err := countQ.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.HasPrefix(countSQL, "SELECT COUNT(*) FROM (SELECT") {
		t.Errorf("count query does not wrap the base select: %s", countSQL)
	}
}

func TestHistory_SQL(t *testing.T) {
	repo := NewStockRepo(nil)

	_, pageQ, err := postgres.PageQueries(repo.historySelect(7), stock.HistorySchema, listing.Query{
		Page:    2,
		Limit:   10,
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

	wantSQL := "SELECT t.created_at, t.number, t.type, " +
		"CASE WHEN t.type = 'sale' THEN -ti.quantity ELSE ti.quantity END AS quantity " +
		"FROM transaction_items ti " +
		"JOIN transactions t ON t.id = ti.transaction_id " +
		"WHERE ti.product_id = $1 AND (t.deletion_mark = $2) " +
		"ORDER BY t.created_at DESC, ti.id ASC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}

	if len(args) != 2 || args[0] != int64(7) || args[1] != false {
		t.Errorf("Args mismatch\nwant: [7 false]\ngot:  %v", args)
	}
}
