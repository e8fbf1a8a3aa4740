// Package pricing implements line and document arithmetic shared by
// purchase orders, inventory counts and custody closures.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxMode says how a line's tax is expressed.
type TaxMode string

const (
	TaxModeNone TaxMode = "none"
	TaxModeRate TaxMode = "rate" // percentage of the amount after discount
	TaxModeFlat TaxMode = "flat" // absolute currency amount
)

var hundred = decimal.NewFromInt(100)

// CustodyTaxRates are the VAT percentages accepted on custody-closure invoices.
var CustodyTaxRates = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(5),
	decimal.NewFromInt(15),
}

// TaxSpec is a tagged tax input: either a percentage rate or a flat amount.
// Purchase-order lines carry flat amounts, custody-closure invoices carry rates.
type TaxSpec struct {
	Mode  TaxMode
	Value decimal.Decimal
}

// NoTax returns a spec that adds nothing.
func NoTax() TaxSpec {
	return TaxSpec{Mode: TaxModeNone}
}

// RateBased returns a percentage tax spec, e.g. RateBased(15) for 15%.
func RateBased(percent decimal.Decimal) TaxSpec {
	return TaxSpec{Mode: TaxModeRate, Value: percent}
}

// FlatAmount returns a tax spec that adds value as-is.
func FlatAmount(value decimal.Decimal) TaxSpec {
	return TaxSpec{Mode: TaxModeFlat, Value: value}
}

// ParseTaxMode maps an external mode name. Empty means no tax.
func ParseTaxMode(s string) (TaxMode, error) {
	switch TaxMode(s) {
	case "", TaxModeNone:
		return TaxModeNone, nil
	case TaxModeRate, TaxModeFlat:
		return TaxMode(s), nil
	}
	return "", fmt.Errorf("unknown tax mode %q", s)
}

// Amount returns the tax owed on amountAfterDiscount.
func (t TaxSpec) Amount(amountAfterDiscount decimal.Decimal) decimal.Decimal {
	switch t.Mode {
	case TaxModeRate:
		return amountAfterDiscount.Mul(t.Value).Div(hundred)
	case TaxModeFlat:
		return t.Value
	default:
		return decimal.Zero
	}
}

// IsCustodyRate reports whether percent is one of CustodyTaxRates.
func IsCustodyRate(percent decimal.Decimal) bool {
	for _, r := range CustodyTaxRates {
		if r.Equal(percent) {
			return true
		}
	}
	return false
}
