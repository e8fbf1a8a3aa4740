package purchase_order

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

// Service calculates purchase orders.
type Service struct {
	pricer Pricer
	hooks  *domain.HookRegistry[*PurchaseOrder]
}

// NewService creates a new purchase order service.
func NewService(pricer Pricer) *Service {
	return &Service{
		pricer: pricer,
		hooks:  domain.NewHookRegistry[*PurchaseOrder](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PurchaseOrder] {
	return s.hooks
}

// Calculate resolves unit costs for lines without an override and
// recomputes the order totals.
func (s *Service) Calculate(ctx context.Context, po *PurchaseOrder) error {
	if err := s.hooks.Run(ctx, domain.BeforeCalculate, po); err != nil {
		return err
	}

	if err := po.Validate(ctx); err != nil {
		return err
	}

	inputs := make([]costing.LineInput, len(po.Lines))
	for i, l := range po.Lines {
		inputs[i] = costing.LineInput{
			ItemID:   l.ItemID,
			UnitID:   l.UnitID,
			Quantity: l.Quantity,
			Discount: l.Discount,
		}
		if l.PriceOverridden {
			cost := l.UnitCost
			inputs[i].UnitCostOverride = &cost
		}
	}

	priced, err := s.pricer.PriceLines(ctx, inputs)
	if err != nil {
		return err
	}

	for i := range po.Lines {
		po.Lines[i].UnitCost = priced[i].Result.UnitCost
		po.Lines[i].Warnings = priced[i].Resolution.Warnings
	}
	po.Recalculate()

	if err := s.hooks.Run(ctx, domain.AfterCalculate, po); err != nil {
		logger.Warn(ctx, "after-calculate hook failed", "error", err, "document", "purchase_order")
	}

	logger.Debug(ctx, "purchase order calculated",
		"id", po.ID, "lines", len(po.Lines), "grand_total", po.Totals.GrandTotal.String())
	return nil
}

// Submit validates, recalculates and submits a draft order.
func (s *Service) Submit(ctx context.Context, po *PurchaseOrder) error {
	if err := s.hooks.Run(ctx, domain.BeforeTransition, po); err != nil {
		return err
	}
	if err := s.Calculate(ctx, po); err != nil {
		return err
	}
	if err := po.Submit(ctx); err != nil {
		return err
	}
	po.Bump()
	logger.Info(ctx, "purchase order submitted", "id", po.ID, "grand_total", po.Totals.GrandTotal.String())
	return nil
}
