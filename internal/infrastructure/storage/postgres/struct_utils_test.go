package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"procura/internal/core/id"
)

type auditedRow struct {
	ID      id.ID `db:"id"`
	Version int   `db:"version"`
}

type mockRow struct {
	auditedRow
	Code   string              `db:"code"`
	Price  decimal.NullDecimal `db:"price"`
	Cached string              `db:"-"`
	Note   string
}

func TestExtractDBColumns_EmbeddedAndSkipped(t *testing.T) {
	cols := ExtractDBColumns[mockRow]()
	assert.Equal(t, []string{"id", "version", "code", "price"}, cols)
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockRow](), ExtractDBColumns[*mockRow]())
	assert.Nil(t, ExtractDBColumns[int]())
}

func TestStructToMap(t *testing.T) {
	rowID := id.New()
	row := mockRow{
		auditedRow: auditedRow{ID: rowID, Version: 3},
		Code:       "KG",
		Cached:     "ignored",
		Note:       "ignored",
	}

	m := StructToMap(&row)
	assert.Len(t, m, 4)
	assert.Equal(t, rowID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "KG", m["code"])
	assert.NotContains(t, m, "Cached")

	assert.Nil(t, StructToMap((*mockRow)(nil)))
	assert.Nil(t, StructToMap(42))
}
