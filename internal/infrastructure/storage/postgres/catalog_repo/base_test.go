package catalog_repo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/id"
)

func TestUnitRepo_ListQuery(t *testing.T) {
	repo := NewUnitRepo(nil)

	sql, args, err := repo.listQuery().ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, code, name_ar, name_en, symbol, base_unit_id, conversion_factor, deletion_mark "+
			"FROM cat_units ORDER BY code ASC, id ASC",
		sql)
	assert.Empty(t, args)
}

func TestItemRepo_ListQuery(t *testing.T) {
	repo := NewItemRepo(nil)

	sql, args, err := repo.listQuery().ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, code, name_ar, name_en, default_unit_id, price, category_id, deletion_mark "+
			"FROM cat_items WHERE deletion_mark = $1 ORDER BY code ASC, id ASC",
		sql)
	assert.Equal(t, []any{false}, args)
}

func TestUnitRow_NullFactorBecomesZero(t *testing.T) {
	nilRef := id.Nil()
	row := unitRow{ID: id.New(), Code: "PCS", BaseUnitID: &nilRef}

	u := row.toDomain()

	assert.True(t, u.ConversionFactor.IsZero())
	assert.Nil(t, u.BaseUnitID)
	assert.True(t, u.IsBase())
}

func TestItemRow_ToDomain(t *testing.T) {
	unitID := id.New()
	row := itemRow{
		ID:            id.New(),
		Code:          "RICE",
		DefaultUnitID: &unitID,
		Price:         decimal.NullDecimal{Decimal: decimal.NewFromInt(48), Valid: true},
	}

	it := row.toDomain()

	assert.True(t, it.Price.Equal(decimal.NewFromInt(48)))
	assert.Equal(t, unitID, it.DefaultUnit())
	assert.Nil(t, it.CategoryID)

	row.Price = decimal.NullDecimal{}
	assert.True(t, row.toDomain().Price.IsZero())
}

func TestUnitRepo_UpsertQuery(t *testing.T) {
	repo := NewUnitRepo(nil)
	row := unitRow{
		ID:               id.New(),
		Code:             "KG",
		ConversionFactor: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
	}

	sql, args, err := repo.upsertQuery(row).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO cat_units (")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET ")
	assert.Contains(t, sql, "code = EXCLUDED.code")
	assert.NotContains(t, sql, "id = EXCLUDED.id,")
	assert.Len(t, args, 8)
	assert.Contains(t, args, "KG")
}
