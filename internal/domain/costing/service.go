package costing

import (
	"context"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/pricing"
	"procura/pkg/logger"
)

// LineInput is one caller-supplied document line.
type LineInput struct {
	ItemID   id.ID
	UnitID   id.ID
	Quantity decimal.Decimal
	Discount decimal.Decimal
	Tax      pricing.TaxSpec

	// UnitCostOverride replaces the resolved cost when the user typed a price.
	UnitCostOverride *decimal.Decimal
}

// PricedLine is a line with its resolved unit cost and computed amounts.
type PricedLine struct {
	Item       item.Item
	UnitID     id.ID
	Resolution Resolution
	Result     pricing.LineResult
}

// Service resolves costs against the store's current snapshot.
type Service struct {
	store *Store
	log   *logger.Logger
}

// NewService creates a costing service.
func NewService(store *Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log.WithComponent("costing")}
}

// Snapshot returns the current snapshot or a 503 AppError before the first load.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, apperror.NewUnavailable("catalog snapshot not loaded")
	}
	return snap, nil
}

// ResolveItemCost resolves the cost of one unitID of a catalog item.
func (s *Service) ResolveItemCost(ctx context.Context, itemID, unitID id.ID) (item.Item, Resolution, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return item.Item{}, Resolution{}, err
	}
	it, ok := snap.FindItem(itemID)
	if !ok {
		return item.Item{}, Resolution{}, apperror.NewNotFound("item", itemID.String())
	}
	res := snap.Resolver().ResolveUnitCost(it, unitID)
	s.report(ctx, it, unitID, res)
	return it, res, nil
}

// Resolve resolves an item supplied by the caller (not necessarily in the
// catalog) against the current unit graph.
func (s *Service) Resolve(ctx context.Context, it item.Item, unitID id.ID) (Resolution, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return Resolution{}, err
	}
	res := snap.Resolver().ResolveUnitCost(it, unitID)
	s.report(ctx, it, unitID, res)
	return res, nil
}

// PriceLine prices a single line.
func (s *Service) PriceLine(ctx context.Context, in LineInput) (PricedLine, error) {
	priced, err := s.PriceLines(ctx, []LineInput{in})
	if err != nil {
		return PricedLine{}, err
	}
	return priced[0], nil
}

// PriceLines prices every input against one snapshot, so a document never
// mixes catalog versions.
func (s *Service) PriceLines(ctx context.Context, inputs []LineInput) ([]PricedLine, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	out := make([]PricedLine, 0, len(inputs))
	for i, in := range inputs {
		it, ok := snap.FindItem(in.ItemID)
		if !ok {
			return nil, apperror.NewNotFound("item", in.ItemID.String()).
				WithDetail("lineNo", i+1)
		}

		var res Resolution
		if in.UnitCostOverride != nil {
			res = Resolution{Cost: *in.UnitCostOverride, Price: it.Price, Direction: DirectionManual, Factor: one}
		} else {
			res = snap.Resolver().ResolveUnitCost(it, in.UnitID)
			s.report(ctx, it, in.UnitID, res)
		}

		out = append(out, PricedLine{
			Item:       it,
			UnitID:     in.UnitID,
			Resolution: res,
			Result:     pricing.ComputeLine(in.Quantity, res.Cost, in.Discount, in.Tax),
		})
	}
	return out, nil
}

func (s *Service) report(ctx context.Context, it item.Item, unitID id.ID, res Resolution) {
	for _, w := range res.Warnings {
		s.log.WithContext(ctx).Warnw("unit cost resolution warning",
			"code", w.Code,
			"message", w.Message,
			"item_id", it.ID.String(),
			"unit_id", unitID.String(),
			"direction", string(res.Direction),
		)
	}
}
