// Package custody_closure provides the CustodyClosure document (تصفية العهدة):
// a custodian settles a cash float against supplier invoices.
package custody_closure

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/entity"
	"procura/internal/core/id"
	"procura/internal/domain/pricing"
)

const (
	StatusDraft     entity.Status = "draft"
	StatusSubmitted entity.Status = "submitted"
	StatusClosed    entity.Status = "closed"
)

var transitions = map[entity.Status][]entity.Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusClosed, StatusDraft},
}

// CustodyClosure settles a custody amount against invoices.
type CustodyClosure struct {
	entity.Document

	CustodianID   string          `db:"custodian_id" json:"custodianId"`
	CustodianName string          `db:"custodian_name" json:"custodianName"`
	CustodyAmount decimal.Decimal `db:"custody_amount" json:"custodyAmount"`
	Status        entity.Status   `db:"status" json:"status"`

	Totals pricing.DocumentTotals `db:"-" json:"totals"`

	// Balance = CustodyAmount - Totals.GrandTotal. Negative means the
	// custodian spent more than the float.
	Balance decimal.Decimal `db:"-" json:"balance"`

	Invoices []Invoice `db:"-" json:"invoices"`
}

// Invoice is one supplier invoice paid from the custody.
type Invoice struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	VendorName    string    `db:"vendor_name" json:"vendorName"`
	InvoiceNumber string    `db:"invoice_number" json:"invoiceNumber"`
	InvoiceDate   time.Time `db:"invoice_date" json:"invoiceDate"`
	Description   string    `db:"description" json:"description,omitempty"`

	AmountWithoutTax decimal.Decimal `db:"amount_without_tax" json:"amountWithoutTax"`
	Discount         decimal.Decimal `db:"discount" json:"discount"`
	// TaxRate is a percentage from pricing.CustodyTaxRates.
	TaxRate decimal.Decimal `db:"tax_rate" json:"taxRate"`

	Result pricing.LineResult `db:"-" json:"result"`
}

// NewCustodyClosure creates a draft closure.
func NewCustodyClosure(branchID, custodianID string, custodyAmount decimal.Decimal) *CustodyClosure {
	return &CustodyClosure{
		Document:      entity.NewDocument(branchID),
		CustodianID:   custodianID,
		CustodyAmount: custodyAmount,
		Status:        StatusDraft,
		Invoices:      make([]Invoice, 0),
	}
}

// AddInvoice appends an invoice and recalculates.
func (c *CustodyClosure) AddInvoice(vendor, number string, amountWithoutTax, discount, taxRate decimal.Decimal) *Invoice {
	c.Invoices = append(c.Invoices, Invoice{
		LineID:           id.New(),
		LineNo:           len(c.Invoices) + 1,
		VendorName:       vendor,
		InvoiceNumber:    number,
		InvoiceDate:      time.Now().UTC(),
		AmountWithoutTax: amountWithoutTax,
		Discount:         discount,
		TaxRate:          taxRate,
	})
	c.Recalculate()
	return &c.Invoices[len(c.Invoices)-1]
}

// Recalculate recomputes invoice results, totals and balance.
func (c *CustodyClosure) Recalculate() {
	results := make([]pricing.LineResult, len(c.Invoices))
	for i := range c.Invoices {
		inv := &c.Invoices[i]
		inv.Result = pricing.ComputeAmount(inv.AmountWithoutTax, inv.Discount, pricing.RateBased(inv.TaxRate))
		results[i] = inv.Result
	}
	c.Totals = pricing.AggregateDocument(results)
	c.Balance = c.CustodyAmount.Sub(c.Totals.GrandTotal)
}

// Validate implements entity.Validatable.
func (c *CustodyClosure) Validate(ctx context.Context) error {
	if err := c.Document.Validate(ctx); err != nil {
		return err
	}

	if c.CustodianID == "" {
		return apperror.NewValidation("custodian is required").
			WithDetail("field", "custodianId")
	}

	if c.CustodyAmount.IsNegative() {
		return apperror.NewValidation("custody amount cannot be negative").
			WithDetail("field", "custodyAmount")
	}

	for i, inv := range c.Invoices {
		if inv.InvoiceNumber == "" {
			return apperror.NewValidation("invoice number is required").
				WithDetail("field", "invoices").
				WithDetail("lineNo", i+1)
		}
		if !pricing.IsCustodyRate(inv.TaxRate) {
			return apperror.NewValidation("tax rate must be one of 0, 5, 15").
				WithDetail("field", "invoices").
				WithDetail("lineNo", i+1).
				WithDetail("taxRate", inv.TaxRate.String())
		}
		if inv.AmountWithoutTax.IsNegative() || inv.Discount.IsNegative() {
			return apperror.NewValidation("amount and discount cannot be negative").
				WithDetail("field", "invoices").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Submit sends a valid draft for review.
func (c *CustodyClosure) Submit(ctx context.Context) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if len(c.Invoices) == 0 {
		return apperror.NewValidation("at least one invoice is required").
			WithDetail("field", "invoices")
	}
	c.Recalculate()
	return entity.Transition(&c.Status, StatusSubmitted, transitions)
}

// Close settles a submitted closure.
func (c *CustodyClosure) Close() error {
	return entity.Transition(&c.Status, StatusClosed, transitions)
}

// Reject returns a submitted closure to draft.
func (c *CustodyClosure) Reject() error {
	return entity.Transition(&c.Status, StatusDraft, transitions)
}

var _ entity.Validatable = (*CustodyClosure)(nil)
