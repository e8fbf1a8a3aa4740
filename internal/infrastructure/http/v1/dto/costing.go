package dto

import (
	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/costing"
	"procura/internal/domain/pricing"
)

// --- Resolve ---

// ResolveRequest asks for the cost of one unit of an item. The item is either
// looked up by ItemID or supplied inline.
type ResolveRequest struct {
	ItemID *string     `json:"itemId" binding:"required_without=Item,omitempty,uuid"`
	Item   *InlineItem `json:"item" binding:"required_without=ItemID"`
	UnitID string      `json:"unitId" binding:"omitempty,uuid"`
}

// InlineItem is an item that need not exist in the catalog.
type InlineItem struct {
	ID            string               `json:"id" binding:"omitempty,uuid"`
	DefaultUnitID string               `json:"defaultUnitId" binding:"omitempty,uuid"`
	Price         types.LenientDecimal `json:"price"`
}

// ToEntity converts the inline item. A missing price is 0.
func (r *InlineItem) ToEntity(issues *NumericIssues) (item.Item, error) {
	itemID, err := parseID("item.id", r.ID)
	if err != nil {
		return item.Item{}, err
	}
	unitID, err := parseID("item.defaultUnitId", r.DefaultUnitID)
	if err != nil {
		return item.Item{}, err
	}
	it := item.Item{
		ID:    itemID,
		Price: issues.Value("item.price", r.Price),
	}
	if !id.IsNil(unitID) {
		it.DefaultUnitID = id.Ptr(unitID)
	}
	return it, nil
}

// ResolveResponse is the cost of one requested unit.
type ResolveResponse struct {
	ItemID      string            `json:"itemId"`
	UnitID      string            `json:"unitId"`
	Price       decimal.Decimal   `json:"price"`
	Cost        decimal.Decimal   `json:"cost"`
	CostDisplay decimal.Decimal   `json:"costDisplay"`
	Direction   costing.Direction `json:"direction"`
	Factor      decimal.Decimal   `json:"factor"`
	Path        []string          `json:"path"`
	Warnings    []costing.Warning `json:"warnings"`
}

// FromResolution creates a ResolveResponse.
func FromResolution(it item.Item, unitID id.ID, res costing.Resolution, extra []costing.Warning) ResolveResponse {
	return ResolveResponse{
		ItemID:      it.ID.String(),
		UnitID:      unitID.String(),
		Price:       res.Price,
		Cost:        res.Cost,
		CostDisplay: types.RoundDisplay(res.Cost),
		Direction:   res.Direction,
		Factor:      res.Factor,
		Path:        idStrings(res.Path),
		Warnings:    warningsOrEmpty(append(extra, res.Warnings...)),
	}
}

// --- Lines ---

// TaxRequest is the tagged tax input of a line.
type TaxRequest struct {
	Mode  string               `json:"mode" binding:"omitempty,oneof=none rate flat"`
	Value types.LenientDecimal `json:"value"`
}

// ToSpec converts the request into a pricing.TaxSpec.
func (r *TaxRequest) ToSpec(field string, issues *NumericIssues) (pricing.TaxSpec, error) {
	if r == nil {
		return pricing.NoTax(), nil
	}
	mode, err := pricing.ParseTaxMode(r.Mode)
	if err != nil {
		return pricing.TaxSpec{}, apperror.NewValidation("invalid tax mode").
			WithDetail("field", field+".mode").
			WithDetail("value", r.Mode)
	}
	value := issues.Value(field+".value", r.Value)
	switch mode {
	case pricing.TaxModeRate:
		return pricing.RateBased(value), nil
	case pricing.TaxModeFlat:
		return pricing.FlatAmount(value), nil
	default:
		return pricing.NoTax(), nil
	}
}

// LineRequest is one line for ComputeLine.
type LineRequest struct {
	Quantity types.LenientDecimal `json:"quantity"`
	UnitCost types.LenientDecimal `json:"unitCost"`
	Discount types.LenientDecimal `json:"discount"`
	Tax      *TaxRequest          `json:"tax"`
}

// ComputeLinesRequest is the body of POST /costing/lines.
type ComputeLinesRequest struct {
	Lines []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// LineResultResponse is a LineResult rounded for display.
type LineResultResponse struct {
	LineNo int `json:"lineNo"`
	pricing.LineResult
}

// ComputeLinesResponse carries per-line results and their totals.
type ComputeLinesResponse struct {
	Lines    []LineResultResponse   `json:"lines"`
	Totals   pricing.DocumentTotals `json:"totals"`
	Warnings []costing.Warning      `json:"warnings"`
}

// Compute runs ComputeLine for every line and aggregates the raw results
// before rounding.
func (r *ComputeLinesRequest) Compute() (ComputeLinesResponse, error) {
	var issues NumericIssues
	results := make([]pricing.LineResult, len(r.Lines))
	for i := range r.Lines {
		l := &r.Lines[i]
		tax, err := l.Tax.ToSpec(lineField("lines", i, "tax"), &issues)
		if err != nil {
			return ComputeLinesResponse{}, err
		}
		results[i] = pricing.ComputeLine(
			issues.Value(lineField("lines", i, "quantity"), l.Quantity),
			issues.Value(lineField("lines", i, "unitCost"), l.UnitCost),
			issues.Value(lineField("lines", i, "discount"), l.Discount),
			tax,
		)
	}

	resp := ComputeLinesResponse{
		Lines:    make([]LineResultResponse, len(results)),
		Totals:   pricing.AggregateDocument(results).Round(types.DisplayPlaces),
		Warnings: warningsOrEmpty(issues.Warnings()),
	}
	for i, res := range results {
		resp.Lines[i] = LineResultResponse{LineNo: i + 1, LineResult: res.Round(types.DisplayPlaces)}
	}
	return resp, nil
}

// --- Aggregate ---

// AggregateLine is an already computed line.
type AggregateLine struct {
	AmountBeforeDiscount types.LenientDecimal `json:"amountBeforeDiscount"`
	Discount             types.LenientDecimal `json:"discount"`
	TaxAmount            types.LenientDecimal `json:"taxAmount"`
	LineTotal            types.LenientDecimal `json:"lineTotal"`
}

// AggregateRequest is the body of POST /costing/aggregate.
type AggregateRequest struct {
	Lines []AggregateLine `json:"lines" binding:"dive"`
}

// AggregateResponse carries document totals.
type AggregateResponse struct {
	Totals   pricing.DocumentTotals `json:"totals"`
	Warnings []costing.Warning      `json:"warnings"`
}

// Aggregate sums the lines. An empty list yields zero totals.
func (r *AggregateRequest) Aggregate() AggregateResponse {
	var issues NumericIssues
	results := make([]pricing.LineResult, len(r.Lines))
	for i := range r.Lines {
		l := &r.Lines[i]
		results[i] = pricing.LineResult{
			AmountBeforeDiscount: issues.Value(lineField("lines", i, "amountBeforeDiscount"), l.AmountBeforeDiscount),
			Discount:             issues.Value(lineField("lines", i, "discount"), l.Discount),
			TaxAmount:            issues.Value(lineField("lines", i, "taxAmount"), l.TaxAmount),
			LineTotal:            issues.Value(lineField("lines", i, "lineTotal"), l.LineTotal),
		}
	}
	return AggregateResponse{
		Totals:   pricing.AggregateDocument(results).Round(types.DisplayPlaces),
		Warnings: warningsOrEmpty(issues.Warnings()),
	}
}
