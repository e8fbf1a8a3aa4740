// Package inventory_count provides the InventoryCount document (جرد المخزون).
package inventory_count

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/entity"
	"procura/internal/core/id"
	"procura/internal/domain/costing"
	"procura/internal/domain/pricing"
)

const (
	StatusDraft      entity.Status = "draft"
	StatusInProgress entity.Status = "in_progress"
	StatusCompleted  entity.Status = "completed"
	StatusCancelled  entity.Status = "cancelled"
)

var transitions = map[entity.Status][]entity.Status{
	StatusDraft:      {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// InventoryCount records counted stock of a branch valued at unit cost.
type InventoryCount struct {
	entity.Document

	Status        entity.Status `db:"status" json:"status"`
	StartDate     time.Time     `db:"start_date" json:"startDate"`
	EndDate       *time.Time    `db:"end_date" json:"endDate,omitempty"`
	ResponsibleID string        `db:"responsible_id" json:"responsibleId,omitempty"`

	Totals Totals `db:"-" json:"totals"`

	Lines []Line `db:"-" json:"lines"`
}

// Totals are the valued sums of an inventory count.
type Totals struct {
	BookValue     decimal.Decimal `json:"bookValue"`
	CountedValue  decimal.Decimal `json:"countedValue"`
	SurplusValue  decimal.Decimal `json:"surplusValue"`
	ShortageValue decimal.Decimal `json:"shortageValue"`
	// NetDeviationValue = SurplusValue - ShortageValue.
	NetDeviationValue decimal.Decimal `json:"netDeviationValue"`
}

// Line is one counted item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`
	UnitID id.ID `db:"unit_id" json:"unitId"`

	BookQuantity    decimal.Decimal  `db:"book_quantity" json:"bookQuantity"`
	CountedQuantity *decimal.Decimal `db:"counted_quantity" json:"countedQuantity,omitempty"`

	UnitCost        decimal.Decimal `db:"unit_cost" json:"unitCost"`
	PriceOverridden bool            `db:"price_overridden" json:"priceOverridden"`

	// Result values the counted quantity (zero until counted).
	Result            pricing.LineResult `db:"-" json:"result"`
	DeviationQuantity decimal.Decimal    `db:"deviation" json:"deviationQuantity"`
	DeviationValue    decimal.Decimal    `db:"deviation_amount" json:"deviationValue"`

	CountedAt *time.Time `db:"counted_at" json:"countedAt,omitempty"`
	CountedBy string     `db:"counted_by" json:"countedBy,omitempty"`

	Warnings []costing.Warning `db:"-" json:"warnings,omitempty"`
}

// Counted reports whether a counted quantity was entered.
func (l *Line) Counted() bool {
	return l.CountedQuantity != nil
}

// NewInventoryCount creates a draft count.
func NewInventoryCount(branchID string) *InventoryCount {
	return &InventoryCount{
		Document:  entity.NewDocument(branchID),
		Status:    StatusDraft,
		StartDate: time.Now().UTC(),
		Lines:     make([]Line, 0),
	}
}

// AddLine adds an item with its book quantity.
func (inv *InventoryCount) AddLine(itemID, unitID id.ID, bookQuantity decimal.Decimal) *Line {
	inv.Lines = append(inv.Lines, Line{
		LineID:       id.New(),
		LineNo:       len(inv.Lines) + 1,
		ItemID:       itemID,
		UnitID:       unitID,
		BookQuantity: bookQuantity,
	})
	return &inv.Lines[len(inv.Lines)-1]
}

// SetCounted records the counted quantity of a line.
func (inv *InventoryCount) SetCounted(lineNo int, counted decimal.Decimal, countedBy string) error {
	if lineNo < 1 || lineNo > len(inv.Lines) {
		return apperror.NewValidation("invalid line number").
			WithDetail("lineNo", lineNo)
	}
	if inv.Status == StatusCompleted || inv.Status == StatusCancelled {
		return apperror.NewBusinessRule(apperror.CodeInvalidStatus, "count is closed").
			WithDetail("status", string(inv.Status))
	}

	l := &inv.Lines[lineNo-1]
	l.CountedQuantity = &counted
	now := time.Now().UTC()
	l.CountedAt = &now
	l.CountedBy = countedBy

	inv.Recalculate()
	return nil
}

// Recalculate values every line at its unit cost and refreshes totals.
// Uncounted lines contribute book value only.
func (inv *InventoryCount) Recalculate() {
	totals := Totals{
		BookValue:         decimal.Zero,
		CountedValue:      decimal.Zero,
		SurplusValue:      decimal.Zero,
		ShortageValue:     decimal.Zero,
		NetDeviationValue: decimal.Zero,
	}

	for i := range inv.Lines {
		l := &inv.Lines[i]
		totals.BookValue = totals.BookValue.Add(l.BookQuantity.Mul(l.UnitCost))

		if !l.Counted() {
			l.Result = pricing.ComputeLine(decimal.Zero, l.UnitCost, decimal.Zero, pricing.NoTax())
			l.DeviationQuantity = decimal.Zero
			l.DeviationValue = decimal.Zero
			continue
		}

		l.Result = pricing.ComputeLine(*l.CountedQuantity, l.UnitCost, decimal.Zero, pricing.NoTax())
		l.DeviationQuantity = l.CountedQuantity.Sub(l.BookQuantity)
		l.DeviationValue = l.DeviationQuantity.Mul(l.UnitCost)

		totals.CountedValue = totals.CountedValue.Add(l.Result.LineTotal)
		switch {
		case l.DeviationValue.IsPositive():
			totals.SurplusValue = totals.SurplusValue.Add(l.DeviationValue)
		case l.DeviationValue.IsNegative():
			totals.ShortageValue = totals.ShortageValue.Add(l.DeviationValue.Neg())
		}
	}

	totals.NetDeviationValue = totals.SurplusValue.Sub(totals.ShortageValue)
	inv.Totals = totals
}

// Validate implements entity.Validatable.
func (inv *InventoryCount) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if inv.StartDate.IsZero() {
		return apperror.NewValidation("start date is required").
			WithDetail("field", "startDate")
	}

	for i, line := range inv.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.BookQuantity.IsNegative() {
			return apperror.NewValidation("book quantity cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Counted() && line.CountedQuantity.IsNegative() {
			return apperror.NewValidation("counted quantity cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Start transitions the count to in_progress.
func (inv *InventoryCount) Start() error {
	return entity.Transition(&inv.Status, StatusInProgress, transitions)
}

// Complete closes the count. Every line must be counted.
func (inv *InventoryCount) Complete() error {
	for i, line := range inv.Lines {
		if !line.Counted() {
			return apperror.NewBusinessRule("LINE_NOT_COUNTED", "all lines must be counted before completing").
				WithDetail("lineNo", i+1)
		}
	}

	if err := entity.Transition(&inv.Status, StatusCompleted, transitions); err != nil {
		return err
	}
	now := time.Now().UTC()
	inv.EndDate = &now
	return nil
}

// Cancel abandons a count that is not completed.
func (inv *InventoryCount) Cancel() error {
	return entity.Transition(&inv.Status, StatusCancelled, transitions)
}

var _ entity.Validatable = (*InventoryCount)(nil)
