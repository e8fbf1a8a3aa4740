// Package purchase_order provides the PurchaseOrder document (أمر شراء).
package purchase_order

import (
	"context"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/entity"
	"procura/internal/core/id"
	"procura/internal/domain/costing"
	"procura/internal/domain/pricing"
)

const (
	StatusDraft     entity.Status = "draft"
	StatusSubmitted entity.Status = "submitted"
	StatusApproved  entity.Status = "approved"
	StatusCancelled entity.Status = "cancelled"
)

var transitions = map[entity.Status][]entity.Status{
	StatusDraft:     {StatusSubmitted, StatusCancelled},
	StatusSubmitted: {StatusApproved, StatusCancelled},
}

// PurchaseOrder is a branch order to a supplier.
type PurchaseOrder struct {
	entity.Document

	SupplierID   *id.ID        `db:"supplier_id" json:"supplierId,omitempty"`
	SupplierName string        `db:"supplier_name" json:"supplierName"`
	Status       entity.Status `db:"status" json:"status"`

	Totals pricing.DocumentTotals `db:"-" json:"totals"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one ordered item. Tax is a flat amount per line.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID   id.ID           `db:"item_id" json:"itemId"`
	UnitID   id.ID           `db:"unit_id" json:"unitId"`
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`

	// UnitCost is resolved from the catalog unless PriceOverridden.
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unitCost"`
	PriceOverridden bool            `db:"price_overridden" json:"priceOverridden"`

	Discount  decimal.Decimal `db:"discount" json:"discount"`
	TaxAmount decimal.Decimal `db:"tax_amount" json:"taxAmount"`

	Result   pricing.LineResult `db:"-" json:"result"`
	Warnings []costing.Warning  `db:"-" json:"warnings,omitempty"`
}

// NewPurchaseOrder creates a draft order.
func NewPurchaseOrder(branchID, supplierName string) *PurchaseOrder {
	return &PurchaseOrder{
		Document:     entity.NewDocument(branchID),
		SupplierName: supplierName,
		Status:       StatusDraft,
		Lines:        make([]Line, 0),
	}
}

// AddLine appends a line whose unit cost will be resolved from the catalog.
func (po *PurchaseOrder) AddLine(itemID, unitID id.ID, quantity, discount, taxAmount decimal.Decimal) *Line {
	po.Lines = append(po.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(po.Lines) + 1,
		ItemID:    itemID,
		UnitID:    unitID,
		Quantity:  quantity,
		Discount:  discount,
		TaxAmount: taxAmount,
	})
	return &po.Lines[len(po.Lines)-1]
}

// AddPricedLine appends a line with a user-entered unit cost.
func (po *PurchaseOrder) AddPricedLine(itemID, unitID id.ID, quantity, unitCost, discount, taxAmount decimal.Decimal) *Line {
	l := po.AddLine(itemID, unitID, quantity, discount, taxAmount)
	l.UnitCost = unitCost
	l.PriceOverridden = true
	return l
}

// Recalculate recomputes every line result and the document totals from
// the current unit costs.
func (po *PurchaseOrder) Recalculate() {
	results := make([]pricing.LineResult, len(po.Lines))
	for i := range po.Lines {
		l := &po.Lines[i]
		l.Result = pricing.ComputeLine(l.Quantity, l.UnitCost, l.Discount, pricing.FlatAmount(l.TaxAmount))
		results[i] = l.Result
	}
	po.Totals = pricing.AggregateDocument(results)
}

// Validate implements entity.Validatable.
func (po *PurchaseOrder) Validate(ctx context.Context) error {
	if err := po.Document.Validate(ctx); err != nil {
		return err
	}

	if po.SupplierName == "" && po.SupplierID == nil {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierName")
	}

	if len(po.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range po.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Discount.IsNegative() || line.TaxAmount.IsNegative() {
			return apperror.NewValidation("discount and tax cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Submit moves a valid draft to submitted.
func (po *PurchaseOrder) Submit(ctx context.Context) error {
	if err := po.Validate(ctx); err != nil {
		return err
	}
	return entity.Transition(&po.Status, StatusSubmitted, transitions)
}

// Approve moves a submitted order to approved.
func (po *PurchaseOrder) Approve() error {
	return entity.Transition(&po.Status, StatusApproved, transitions)
}

// Cancel cancels a draft or submitted order.
func (po *PurchaseOrder) Cancel() error {
	return entity.Transition(&po.Status, StatusCancelled, transitions)
}

// CanModify reports whether lines may still change.
func (po *PurchaseOrder) CanModify() error {
	if po.Status != StatusDraft {
		return apperror.NewBusinessRule(apperror.CodeInvalidStatus, "only draft orders can be modified").
			WithDetail("status", string(po.Status))
	}
	return nil
}

var _ entity.Validatable = (*PurchaseOrder)(nil)
