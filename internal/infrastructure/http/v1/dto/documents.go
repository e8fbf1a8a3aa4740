package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"procura/internal/core/entity"
	"procura/internal/core/types"
	"procura/internal/domain/costing"
	"procura/internal/domain/documents/custody_closure"
	"procura/internal/domain/documents/inventory_count"
	"procura/internal/domain/documents/purchase_order"
	"procura/internal/domain/pricing"
)

// DocumentHeader holds the fields shared by every document request.
type DocumentHeader struct {
	BranchID string     `json:"branchId" binding:"required"`
	Number   string     `json:"number"`
	Date     *time.Time `json:"date"`
	Comment  string     `json:"comment"`
}

func (h *DocumentHeader) applyTo(d *entity.Document) {
	d.Number = h.Number
	d.Comment = h.Comment
	if h.Date != nil && !h.Date.IsZero() {
		d.Date = h.Date.UTC()
	}
}

// DocumentHeaderResponse echoes the header of a calculated document.
type DocumentHeaderResponse struct {
	ID       string        `json:"id"`
	Number   string        `json:"number,omitempty"`
	Date     time.Time     `json:"date"`
	BranchID string        `json:"branchId"`
	Comment  string        `json:"comment,omitempty"`
	Status   entity.Status `json:"status"`
}

func headerFrom(d entity.Document, status entity.Status) DocumentHeaderResponse {
	return DocumentHeaderResponse{
		ID:       d.ID.String(),
		Number:   d.Number,
		Date:     d.Date,
		BranchID: d.BranchID,
		Comment:  d.Comment,
		Status:   status,
	}
}

// --- Purchase order ---

// PurchaseOrderRequest is the body of POST /documents/purchase-orders/calculate.
type PurchaseOrderRequest struct {
	DocumentHeader
	SupplierID   *string                    `json:"supplierId" binding:"omitempty,uuid"`
	SupplierName string                     `json:"supplierName"`
	Lines        []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineRequest is one order line. UnitCost, when present,
// overrides the resolved catalog cost. TaxAmount is a flat amount.
type PurchaseOrderLineRequest struct {
	ItemID    string               `json:"itemId" binding:"required,uuid"`
	UnitID    string               `json:"unitId" binding:"omitempty,uuid"`
	Quantity  types.LenientDecimal `json:"quantity"`
	UnitCost  types.LenientDecimal `json:"unitCost"`
	Discount  types.LenientDecimal `json:"discount"`
	TaxAmount types.LenientDecimal `json:"taxAmount"`
}

// ToEntity converts the request into a draft purchase order.
func (r *PurchaseOrderRequest) ToEntity(issues *NumericIssues) (*purchase_order.PurchaseOrder, error) {
	po := purchase_order.NewPurchaseOrder(r.BranchID, r.SupplierName)
	r.applyTo(&po.Document)

	supplierID, err := parseOptionalIDPtr("supplierId", r.SupplierID)
	if err != nil {
		return nil, err
	}
	po.SupplierID = supplierID

	for i := range r.Lines {
		l := &r.Lines[i]
		itemID, err := parseRequiredID(lineField("lines", i, "itemId"), l.ItemID)
		if err != nil {
			return nil, err
		}
		unitID, err := parseID(lineField("lines", i, "unitId"), l.UnitID)
		if err != nil {
			return nil, err
		}
		qty := issues.Value(lineField("lines", i, "quantity"), l.Quantity)
		discount := issues.Value(lineField("lines", i, "discount"), l.Discount)
		tax := issues.Value(lineField("lines", i, "taxAmount"), l.TaxAmount)

		if l.UnitCost.Present {
			cost := issues.Value(lineField("lines", i, "unitCost"), l.UnitCost)
			po.AddPricedLine(itemID, unitID, qty, cost, discount, tax)
		} else {
			po.AddLine(itemID, unitID, qty, discount, tax)
		}
	}
	return po, nil
}

// PurchaseOrderResponse is a calculated purchase order.
type PurchaseOrderResponse struct {
	DocumentHeaderResponse
	SupplierID   *string                     `json:"supplierId,omitempty"`
	SupplierName string                      `json:"supplierName"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	Totals       pricing.DocumentTotals      `json:"totals"`
	Warnings     []costing.Warning           `json:"warnings"`
}

// PurchaseOrderLineResponse is one calculated line.
type PurchaseOrderLineResponse struct {
	LineNo          int                `json:"lineNo"`
	ItemID          string             `json:"itemId"`
	UnitID          string             `json:"unitId"`
	PriceOverridden bool               `json:"priceOverridden"`
	Result          pricing.LineResult `json:"result"`
	Warnings        []costing.Warning  `json:"warnings"`
}

// FromPurchaseOrder creates the response, rounding amounts for display.
func FromPurchaseOrder(po *purchase_order.PurchaseOrder, warnings []costing.Warning) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		DocumentHeaderResponse: headerFrom(po.Document, po.Status),
		SupplierID:             optionalID(po.SupplierID),
		SupplierName:           po.SupplierName,
		Lines:                  make([]PurchaseOrderLineResponse, len(po.Lines)),
		Totals:                 po.Totals.Round(types.DisplayPlaces),
		Warnings:               warningsOrEmpty(warnings),
	}
	for i, l := range po.Lines {
		resp.Lines[i] = PurchaseOrderLineResponse{
			LineNo:          l.LineNo,
			ItemID:          l.ItemID.String(),
			UnitID:          l.UnitID.String(),
			PriceOverridden: l.PriceOverridden,
			Result:          l.Result.Round(types.DisplayPlaces),
			Warnings:        warningsOrEmpty(l.Warnings),
		}
	}
	return resp
}

// --- Inventory count ---

// InventoryCountRequest is the body of POST /documents/inventory-counts/calculate.
type InventoryCountRequest struct {
	DocumentHeader
	ResponsibleID string                      `json:"responsibleId"`
	Lines         []InventoryCountLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InventoryCountLineRequest is one counted line. A missing CountedQuantity
// means the line has not been counted yet.
type InventoryCountLineRequest struct {
	ItemID          string               `json:"itemId" binding:"required,uuid"`
	UnitID          string               `json:"unitId" binding:"omitempty,uuid"`
	BookQuantity    types.LenientDecimal `json:"bookQuantity"`
	CountedQuantity types.LenientDecimal `json:"countedQuantity"`
	UnitCost        types.LenientDecimal `json:"unitCost"`
	CountedBy       string               `json:"countedBy"`
}

// ToEntity converts the request into an inventory count.
func (r *InventoryCountRequest) ToEntity(issues *NumericIssues) (*inventory_count.InventoryCount, error) {
	inv := inventory_count.NewInventoryCount(r.BranchID)
	r.applyTo(&inv.Document)
	inv.ResponsibleID = r.ResponsibleID

	for i := range r.Lines {
		l := &r.Lines[i]
		itemID, err := parseRequiredID(lineField("lines", i, "itemId"), l.ItemID)
		if err != nil {
			return nil, err
		}
		unitID, err := parseID(lineField("lines", i, "unitId"), l.UnitID)
		if err != nil {
			return nil, err
		}

		line := inv.AddLine(itemID, unitID, issues.Value(lineField("lines", i, "bookQuantity"), l.BookQuantity))
		if l.UnitCost.Present {
			line.UnitCost = issues.Value(lineField("lines", i, "unitCost"), l.UnitCost)
			line.PriceOverridden = true
		}
		if l.CountedQuantity.Present {
			counted := issues.Value(lineField("lines", i, "countedQuantity"), l.CountedQuantity)
			if err := inv.SetCounted(i+1, counted, l.CountedBy); err != nil {
				return nil, err
			}
		}
	}
	return inv, nil
}

// InventoryCountResponse is a valued inventory count.
type InventoryCountResponse struct {
	DocumentHeaderResponse
	ResponsibleID string                       `json:"responsibleId,omitempty"`
	Lines         []InventoryCountLineResponse `json:"lines"`
	Totals        inventory_count.Totals       `json:"totals"`
	Warnings      []costing.Warning            `json:"warnings"`
}

// InventoryCountLineResponse is one valued line.
type InventoryCountLineResponse struct {
	LineNo            int                `json:"lineNo"`
	ItemID            string             `json:"itemId"`
	UnitID            string             `json:"unitId"`
	BookQuantity      decimal.Decimal    `json:"bookQuantity"`
	CountedQuantity   *decimal.Decimal   `json:"countedQuantity,omitempty"`
	UnitCost          decimal.Decimal    `json:"unitCost"`
	Result            pricing.LineResult `json:"result"`
	DeviationQuantity decimal.Decimal    `json:"deviationQuantity"`
	DeviationValue    decimal.Decimal    `json:"deviationValue"`
	Warnings          []costing.Warning  `json:"warnings"`
}

// FromInventoryCount creates the response, rounding amounts for display.
func FromInventoryCount(inv *inventory_count.InventoryCount, warnings []costing.Warning) InventoryCountResponse {
	t := inv.Totals
	resp := InventoryCountResponse{
		DocumentHeaderResponse: headerFrom(inv.Document, inv.Status),
		ResponsibleID:          inv.ResponsibleID,
		Lines:                  make([]InventoryCountLineResponse, len(inv.Lines)),
		Totals: inventory_count.Totals{
			BookValue:         types.RoundDisplay(t.BookValue),
			CountedValue:      types.RoundDisplay(t.CountedValue),
			SurplusValue:      types.RoundDisplay(t.SurplusValue),
			ShortageValue:     types.RoundDisplay(t.ShortageValue),
			NetDeviationValue: types.RoundDisplay(t.NetDeviationValue),
		},
		Warnings: warningsOrEmpty(warnings),
	}
	for i, l := range inv.Lines {
		resp.Lines[i] = InventoryCountLineResponse{
			LineNo:            l.LineNo,
			ItemID:            l.ItemID.String(),
			UnitID:            l.UnitID.String(),
			BookQuantity:      l.BookQuantity,
			CountedQuantity:   l.CountedQuantity,
			UnitCost:          types.RoundDisplay(l.UnitCost),
			Result:            l.Result.Round(types.DisplayPlaces),
			DeviationQuantity: l.DeviationQuantity,
			DeviationValue:    types.RoundDisplay(l.DeviationValue),
			Warnings:          warningsOrEmpty(l.Warnings),
		}
	}
	return resp
}

// --- Custody closure ---

// CustodyClosureRequest is the body of POST /documents/custody-closures/calculate.
type CustodyClosureRequest struct {
	DocumentHeader
	CustodianID   string                  `json:"custodianId" binding:"required"`
	CustodianName string                  `json:"custodianName"`
	CustodyAmount types.LenientDecimal    `json:"custodyAmount"`
	Invoices      []CustodyInvoiceRequest `json:"invoices" binding:"dive"`
}

// CustodyInvoiceRequest is one supplier invoice.
type CustodyInvoiceRequest struct {
	VendorName       string               `json:"vendorName"`
	InvoiceNumber    string               `json:"invoiceNumber" binding:"required"`
	InvoiceDate      *time.Time           `json:"invoiceDate"`
	Description      string               `json:"description"`
	AmountWithoutTax types.LenientDecimal `json:"amountWithoutTax"`
	Discount         types.LenientDecimal `json:"discount"`
	TaxRate          types.LenientDecimal `json:"taxRate" binding:"custody_tax_rate"`
}

// ToEntity converts the request into a custody closure.
func (r *CustodyClosureRequest) ToEntity(issues *NumericIssues) *custody_closure.CustodyClosure {
	c := custody_closure.NewCustodyClosure(r.BranchID, r.CustodianID, issues.Value("custodyAmount", r.CustodyAmount))
	r.applyTo(&c.Document)
	c.CustodianName = r.CustodianName

	for i := range r.Invoices {
		in := &r.Invoices[i]
		inv := c.AddInvoice(
			in.VendorName,
			in.InvoiceNumber,
			issues.Value(lineField("invoices", i, "amountWithoutTax"), in.AmountWithoutTax),
			issues.Value(lineField("invoices", i, "discount"), in.Discount),
			issues.Value(lineField("invoices", i, "taxRate"), in.TaxRate),
		)
		inv.Description = in.Description
		if in.InvoiceDate != nil && !in.InvoiceDate.IsZero() {
			inv.InvoiceDate = in.InvoiceDate.UTC()
		}
	}
	return c
}

// CustodyClosureResponse is a calculated custody closure.
type CustodyClosureResponse struct {
	DocumentHeaderResponse
	CustodianID   string                   `json:"custodianId"`
	CustodianName string                   `json:"custodianName,omitempty"`
	CustodyAmount decimal.Decimal          `json:"custodyAmount"`
	Invoices      []CustodyInvoiceResponse `json:"invoices"`
	Totals        pricing.DocumentTotals   `json:"totals"`
	Balance       decimal.Decimal          `json:"balance"`
	Warnings      []costing.Warning        `json:"warnings"`
}

// CustodyInvoiceResponse is one calculated invoice.
type CustodyInvoiceResponse struct {
	LineNo        int                `json:"lineNo"`
	VendorName    string             `json:"vendorName"`
	InvoiceNumber string             `json:"invoiceNumber"`
	InvoiceDate   time.Time          `json:"invoiceDate"`
	TaxRate       decimal.Decimal    `json:"taxRate"`
	Result        pricing.LineResult `json:"result"`
}

// FromCustodyClosure creates the response, rounding amounts for display.
func FromCustodyClosure(c *custody_closure.CustodyClosure, warnings []costing.Warning) CustodyClosureResponse {
	resp := CustodyClosureResponse{
		DocumentHeaderResponse: headerFrom(c.Document, c.Status),
		CustodianID:            c.CustodianID,
		CustodianName:          c.CustodianName,
		CustodyAmount:          c.CustodyAmount,
		Invoices:               make([]CustodyInvoiceResponse, len(c.Invoices)),
		Totals:                 c.Totals.Round(types.DisplayPlaces),
		Balance:                types.RoundDisplay(c.Balance),
		Warnings:               warningsOrEmpty(warnings),
	}
	for i, inv := range c.Invoices {
		resp.Invoices[i] = CustodyInvoiceResponse{
			LineNo:        inv.LineNo,
			VendorName:    inv.VendorName,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate,
			TaxRate:       inv.TaxRate,
			Result:        inv.Result.Round(types.DisplayPlaces),
		}
	}
	return resp
}
