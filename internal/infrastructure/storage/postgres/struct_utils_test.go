package postgres

import (
	"testing"
	"time"

	"tillbox/internal/core/entity"

	"github.com/stretchr/testify/assert"
)

type MockCatalog struct {
	entity.Base
	Name    string `db:"name" json:"name"`
	Barcode string `db:"barcode" json:"barcode"`
	Skipped string `db:"-" json:"skipped"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expected := []string{
		"id", "deletion_mark", "created_at", "updated_at", "name", "barcode",
	}
	assert.Equal(t, expected, cols, "embedded columns flatten in declaration order")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	cat := MockCatalog{
		Base: entity.Base{
			ID:           42,
			DeletionMark: true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		Name:    "Test Name",
		Barcode: "4006381333931",
		Skipped: "never stored",
		NoTag:   "never stored",
	}

	m := StructToMap(cat)

	assert.Equal(t, int64(42), m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, now, m["updated_at"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Equal(t, "4006381333931", m["barcode"])
	assert.Len(t, m, 6)
}

func TestStructToMap_Omit(t *testing.T) {
	cat := MockCatalog{Name: "Test Name"}

	m := StructToMap(&cat, "id", "created_at")

	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "created_at")
	assert.Equal(t, "Test Name", m["name"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap("not a struct"))
}
