package catalog_repo

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"

	"tillbox/internal/core/entity"
	"tillbox/internal/domain/listing"
	"tillbox/internal/infrastructure/storage/postgres"
)

type mockItem struct {
	entity.Base
	Name string `db:"name" json:"name"`
}

func (m *mockItem) Validate(ctx context.Context) error { return nil }

var mockSchema = &listing.Schema{
	Resource:     "mock",
	Search:       []string{"t.name"},
	Sorts:        []listing.SortKey{{Key: "name", Expr: "t.name"}},
	DefaultSort:  "name",
	DefaultOrder: listing.OrderAsc,
	TieBreak:     "t.id",
	ScopeColumn:  "t.deletion_mark",
}

func newMockRepo() *BaseCatalogRepo[*mockItem] {
	return NewBaseCatalogRepo[*mockItem](
		nil,
		"test_items",
		"t",
		mockSchema,
		postgres.ExtractDBColumns[mockItem](),
		func() *mockItem { return &mockItem{} },
	)
}

func TestCreate_SQL(t *testing.T) {
	repo := newMockRepo()
	item := &mockItem{Base: entity.NewBase(), Name: "Widget"}

	q := repo.Builder().
		Insert(repo.tableName).
		SetMap(repo.tableData(item, "id")).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "INSERT INTO test_items (created_at,deletion_mark,name,updated_at) VALUES ($1,$2,$3,$4) RETURNING id"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 4 {
		t.Fatalf("Args count mismatch\nwant: 4\ngot:  %d", len(args))
	}
}

func TestUpdate_SQL(t *testing.T) {
	repo := newMockRepo()
	item := &mockItem{Base: entity.NewBase(), Name: "Widget"}
	item.SetID(7)

	q := repo.Builder().
		Update(repo.tableName).
		SetMap(repo.tableData(item, "id", "created_at")).
		Where(squirrel.Eq{"id": item.GetID()})

	sql, _, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "UPDATE test_items SET deletion_mark = $1, name = $2, updated_at = $3 WHERE id = $4"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
}

func TestGetByID_SQL(t *testing.T) {
	repo := newMockRepo()

	q := repo.baseSelect().
		Where(squirrel.Eq{"id": int64(7)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, deletion_mark, created_at, updated_at, name FROM test_items t WHERE id = $1 LIMIT 1"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Errorf("Args mismatch\nwant: [7]\ngot:  %v", args)
	}
}

func TestSetDeletionMark_SQL(t *testing.T) {
	repo := newMockRepo()

	q := repo.Builder().
		Update(repo.tableName).
		Set("deletion_mark", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": int64(7)})

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "UPDATE test_items SET deletion_mark = $1, updated_at = NOW() WHERE id = $2"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 2 {
		t.Fatalf("Args count mismatch\nwant: 2\ngot:  %d", len(args))
	}
}

func TestList_PageSQL(t *testing.T) {
	repo := newMockRepo()

	_, pageQ, err := postgres.PageQueries(repo.baseSelect(), repo.schema, listing.Query{
		Page:    2,
		Limit:   5,
		SortKey: "name",
		Order:   listing.OrderAsc,
	})
	if err != nil {
		t.Fatalf("PageQueries failed: %v", err)
	}

	sql, args, err := pageQ.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, deletion_mark, created_at, updated_at, name FROM test_items t " +
		"WHERE (t.deletion_mark = $1) ORDER BY t.name ASC, t.id ASC LIMIT 5 OFFSET 5"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != false {
		t.Errorf("Args mismatch\nwant: [false]\ngot:  %v", args)
	}
}
