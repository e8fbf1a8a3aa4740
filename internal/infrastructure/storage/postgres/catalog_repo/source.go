package catalog_repo

import (
	"context"

	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
	"procura/internal/domain/costing"
	"procura/internal/infrastructure/storage/postgres"
)

// Source feeds costing snapshots from PostgreSQL.
// Call it inside TxManager.Snapshot so both lists come from one committed state.
type Source struct {
	units *UnitRepo
	items *ItemRepo
}

// NewSource creates a catalog source over txm.
func NewSource(txm *postgres.TxManager) *Source {
	return &Source{
		units: NewUnitRepo(txm),
		items: NewItemRepo(txm),
	}
}

// ListUnits implements costing.Source.
func (s *Source) ListUnits(ctx context.Context) ([]unit.Unit, error) {
	return s.units.ListAll(ctx)
}

// ListItems implements costing.Source.
func (s *Source) ListItems(ctx context.Context) ([]item.Item, error) {
	return s.items.ListAll(ctx)
}

// Import writes units then items inside one transaction.
func (s *Source) Import(ctx context.Context, txm *postgres.TxManager, units []unit.Unit, items []item.Item) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.units.Upsert(ctx, units); err != nil {
			return err
		}
		return s.items.Upsert(ctx, items)
	})
}

var _ costing.Source = (*Source)(nil)
