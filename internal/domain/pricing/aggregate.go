package pricing

import "github.com/shopspring/decimal"

// DocumentTotals are the header totals of a purchase order or custody closure.
type DocumentTotals struct {
	TotalExclTax  decimal.Decimal `json:"totalExclTax"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// AggregateDocument sums lines left to right. An empty slice yields zeros.
func AggregateDocument(lines []LineResult) DocumentTotals {
	totals := DocumentTotals{
		TotalExclTax:  decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalTax:      decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
	for _, l := range lines {
		totals = totals.Add(l)
	}
	return totals
}

// Add returns the totals with one more line accumulated.
func (t DocumentTotals) Add(l LineResult) DocumentTotals {
	return DocumentTotals{
		TotalExclTax:  t.TotalExclTax.Add(l.AmountBeforeDiscount),
		TotalDiscount: t.TotalDiscount.Add(l.Discount),
		TotalTax:      t.TotalTax.Add(l.TaxAmount),
		GrandTotal:    t.GrandTotal.Add(l.LineTotal),
	}
}

// Round returns a copy rounded to places.
func (t DocumentTotals) Round(places int32) DocumentTotals {
	return DocumentTotals{
		TotalExclTax:  t.TotalExclTax.Round(places),
		TotalDiscount: t.TotalDiscount.Round(places),
		TotalTax:      t.TotalTax.Round(places),
		GrandTotal:    t.GrandTotal.Round(places),
	}
}
