package pricing

import (
	"github.com/shopspring/decimal"
)

// LineResult is the computed money side of one document line.
// Values are unrounded; use Round for display.
type LineResult struct {
	Quantity             decimal.Decimal `json:"quantity"`
	UnitCost             decimal.Decimal `json:"unitCost"`
	Discount             decimal.Decimal `json:"discount"`
	AmountBeforeDiscount decimal.Decimal `json:"amountBeforeDiscount"`
	AmountAfterDiscount  decimal.Decimal `json:"amountAfterDiscount"`
	TaxAmount            decimal.Decimal `json:"taxAmount"`
	LineTotal            decimal.Decimal `json:"lineTotal"`
}

// ComputeLine prices quantity units at unitCost, subtracts an absolute
// discount and applies tax.
//
// Negative inputs and a discount larger than the amount pass through
// arithmetically; sign checks are the caller's form validation.
func ComputeLine(quantity, unitCost, discount decimal.Decimal, tax TaxSpec) LineResult {
	before := quantity.Mul(unitCost)
	after := before.Sub(discount)
	taxAmount := tax.Amount(after)

	return LineResult{
		Quantity:             quantity,
		UnitCost:             unitCost,
		Discount:             discount,
		AmountBeforeDiscount: before,
		AmountAfterDiscount:  after,
		TaxAmount:            taxAmount,
		LineTotal:            after.Add(taxAmount),
	}
}

// ComputeAmount is ComputeLine for lines entered as a single amount
// (custody-closure invoices): quantity 1 at amountWithoutTax.
func ComputeAmount(amountWithoutTax, discount decimal.Decimal, tax TaxSpec) LineResult {
	return ComputeLine(decimal.NewFromInt(1), amountWithoutTax, discount, tax)
}

// Round returns a copy with every money field rounded to places.
// Quantity is left as entered.
func (r LineResult) Round(places int32) LineResult {
	return LineResult{
		Quantity:             r.Quantity,
		UnitCost:             r.UnitCost.Round(places),
		Discount:             r.Discount.Round(places),
		AmountBeforeDiscount: r.AmountBeforeDiscount.Round(places),
		AmountAfterDiscount:  r.AmountAfterDiscount.Round(places),
		TaxAmount:            r.TaxAmount.Round(places),
		LineTotal:            r.LineTotal.Round(places),
	}
}
