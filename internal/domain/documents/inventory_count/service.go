package inventory_count

import (
	"context"

	"procura/internal/domain"
	"procura/internal/domain/costing"
	"procura/pkg/logger"
)

// Pricer prices document lines against the catalog.
type Pricer interface {
	PriceLines(ctx context.Context, inputs []costing.LineInput) ([]costing.PricedLine, error)
}

// Service values inventory counts.
type Service struct {
	pricer Pricer
	hooks  *domain.HookRegistry[*InventoryCount]
}

// NewService creates a new inventory count service.
func NewService(pricer Pricer) *Service {
	return &Service{
		pricer: pricer,
		hooks:  domain.NewHookRegistry[*InventoryCount](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*InventoryCount] {
	return s.hooks
}

// Calculate resolves the unit cost of each line in its counting unit and
// values the count.
func (s *Service) Calculate(ctx context.Context, inv *InventoryCount) error {
	if err := s.hooks.Run(ctx, domain.BeforeCalculate, inv); err != nil {
		return err
	}

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	inputs := make([]costing.LineInput, len(inv.Lines))
	for i, l := range inv.Lines {
		inputs[i] = costing.LineInput{ItemID: l.ItemID, UnitID: l.UnitID, Quantity: l.BookQuantity}
		if l.PriceOverridden {
			cost := l.UnitCost
			inputs[i].UnitCostOverride = &cost
		}
	}

	priced, err := s.pricer.PriceLines(ctx, inputs)
	if err != nil {
		return err
	}

	for i := range inv.Lines {
		inv.Lines[i].UnitCost = priced[i].Result.UnitCost
		inv.Lines[i].Warnings = priced[i].Resolution.Warnings
	}
	inv.Recalculate()

	if err := s.hooks.Run(ctx, domain.AfterCalculate, inv); err != nil {
		logger.Warn(ctx, "after-calculate hook failed", "error", err, "document", "inventory_count")
	}

	logger.Debug(ctx, "inventory count calculated",
		"id", inv.ID, "lines", len(inv.Lines), "net_deviation", inv.Totals.NetDeviationValue.String())
	return nil
}
