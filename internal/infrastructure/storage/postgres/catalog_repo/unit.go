package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/catalogs/unit"
	"procura/internal/infrastructure/storage/postgres"
)

const unitTable = "cat_units"

// unitRow mirrors cat_units. conversion_factor is nullable in deployed data.
type unitRow struct {
	ID               id.ID               `db:"id"`
	Code             string              `db:"code"`
	NameAr           string              `db:"name_ar"`
	NameEn           string              `db:"name_en"`
	Symbol           string              `db:"symbol"`
	BaseUnitID       *id.ID              `db:"base_unit_id"`
	ConversionFactor decimal.NullDecimal `db:"conversion_factor"`
	DeletionMark     bool                `db:"deletion_mark"`
}

func (r unitRow) toDomain() unit.Unit {
	// NULL becomes 0, which traversal reports and treats as 1.
	factor, _ := types.CoerceNull(r.ConversionFactor)
	return unit.Unit{
		ID:               r.ID,
		Code:             r.Code,
		NameAr:           r.NameAr,
		NameEn:           r.NameEn,
		Symbol:           r.Symbol,
		BaseUnitID:       normalizeRef(r.BaseUnitID),
		ConversionFactor: factor,
		DeletionMark:     r.DeletionMark,
	}
}

// UnitRepo implements unit.Repository.
type UnitRepo struct {
	baseRepo[unitRow]
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txm *postgres.TxManager) *UnitRepo {
	return &UnitRepo{baseRepo: newBaseRepo[unitRow](txm, unitTable)}
}

// listQuery selects every unit. Deletion-marked units are kept because
// live units may still name them as their base.
func (r *UnitRepo) listQuery() squirrel.SelectBuilder {
	return r.baseSelect().OrderBy("code ASC", "id ASC")
}

// ListAll returns every unit.
func (r *UnitRepo) ListAll(ctx context.Context) ([]unit.Unit, error) {
	rows, err := r.selectAll(ctx, r.listQuery())
	if err != nil {
		return nil, err
	}
	out := make([]unit.Unit, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Upsert inserts or overwrites units by ID.
func (r *UnitRepo) Upsert(ctx context.Context, units []unit.Unit) error {
	rows := make([]unitRow, len(units))
	for i, u := range units {
		rows[i] = unitRow{
			ID:               u.ID,
			Code:             u.Code,
			NameAr:           u.NameAr,
			NameEn:           u.NameEn,
			Symbol:           u.Symbol,
			BaseUnitID:       normalizeRef(u.BaseUnitID),
			ConversionFactor: decimal.NewNullDecimal(u.ConversionFactor),
			DeletionMark:     u.DeletionMark,
		}
	}
	return r.upsertAll(ctx, rows)
}

var _ unit.Repository = (*UnitRepo)(nil)
