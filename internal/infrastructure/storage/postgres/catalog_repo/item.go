package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/catalogs/item"
	"procura/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// itemRow mirrors cat_items. price is nullable in deployed data.
type itemRow struct {
	ID            id.ID               `db:"id"`
	Code          string              `db:"code"`
	NameAr        string              `db:"name_ar"`
	NameEn        string              `db:"name_en"`
	DefaultUnitID *id.ID              `db:"default_unit_id"`
	Price         decimal.NullDecimal `db:"price"`
	CategoryID    *id.ID              `db:"category_id"`
	DeletionMark  bool                `db:"deletion_mark"`
}

func (r itemRow) toDomain() item.Item {
	price, _ := types.CoerceNull(r.Price)
	return item.Item{
		ID:            r.ID,
		Code:          r.Code,
		NameAr:        r.NameAr,
		NameEn:        r.NameEn,
		DefaultUnitID: normalizeRef(r.DefaultUnitID),
		Price:         price,
		CategoryID:    normalizeRef(r.CategoryID),
		DeletionMark:  r.DeletionMark,
	}
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	baseRepo[itemRow]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{baseRepo: newBaseRepo[itemRow](txm, itemTable)}
}

func (r *ItemRepo) listQuery() squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC", "id ASC")
}

// ListAll returns every item not marked for deletion.
func (r *ItemRepo) ListAll(ctx context.Context) ([]item.Item, error) {
	rows, err := r.selectAll(ctx, r.listQuery())
	if err != nil {
		return nil, err
	}
	out := make([]item.Item, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Upsert inserts or overwrites items by ID.
func (r *ItemRepo) Upsert(ctx context.Context, items []item.Item) error {
	rows := make([]itemRow, len(items))
	for i, it := range items {
		rows[i] = itemRow{
			ID:            it.ID,
			Code:          it.Code,
			NameAr:        it.NameAr,
			NameEn:        it.NameEn,
			DefaultUnitID: normalizeRef(it.DefaultUnitID),
			Price:         decimal.NewNullDecimal(it.Price),
			CategoryID:    normalizeRef(it.CategoryID),
			DeletionMark:  it.DeletionMark,
		}
	}
	return r.upsertAll(ctx, rows)
}

// normalizeRef maps a stored nil UUID to an absent reference.
func normalizeRef(p *id.ID) *id.ID {
	if p == nil || id.IsNil(*p) {
		return nil
	}
	v := *p
	return &v
}

var _ item.Repository = (*ItemRepo)(nil)
