package handlers

import (
	"github.com/gin-gonic/gin"

	"procura/internal/domain/audit"
	"procura/internal/domain/documents/inventory_count"
	"procura/internal/domain/documents/purchase_order"
	"procura/internal/infrastructure/http/v1/dto"
	"procura/pkg/logger"
)

// DocumentHandler calculates documents without storing them.
type DocumentHandler struct {
	*BaseHandler
	purchaseOrders  *purchase_order.Service
	inventoryCounts *inventory_count.Service
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(
	base *BaseHandler,
	purchaseOrders *purchase_order.Service,
	inventoryCounts *inventory_count.Service,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		purchaseOrders:  purchaseOrders,
		inventoryCounts: inventoryCounts,
	}
}

// CalculatePurchaseOrder resolves line costs and totals.
// POST /api/v1/documents/purchase-orders/calculate
func (h *DocumentHandler) CalculatePurchaseOrder(c *gin.Context) {
	var req dto.PurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var issues dto.NumericIssues
	po, err := req.ToEntity(&issues)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.purchaseOrders.Calculate(c.Request.Context(), po); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(po, issues.Warnings()))
}

// CalculateInventoryCount values counted quantities at resolved unit cost.
// POST /api/v1/documents/inventory-counts/calculate
func (h *DocumentHandler) CalculateInventoryCount(c *gin.Context) {
	var req dto.InventoryCountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var issues dto.NumericIssues
	inv, err := req.ToEntity(&issues)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.inventoryCounts.Calculate(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInventoryCount(inv, issues.Warnings()))
}

// CalculateCustodyClosure totals invoices and the remaining custody balance.
// POST /api/v1/documents/custody-closures/calculate
func (h *DocumentHandler) CalculateCustodyClosure(c *gin.Context) {
	var req dto.CustodyClosureRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var issues dto.NumericIssues
	closure := req.ToEntity(&issues)

	ctx := c.Request.Context()
	audit.EnrichCreatedBy(ctx, closure.AuditFields())
	if err := closure.Validate(ctx); err != nil {
		h.Error(c, err)
		return
	}
	closure.Recalculate()

	logger.Debug(ctx, "custody closure calculated",
		"invoices", len(closure.Invoices), "balance", closure.Balance.String())

	h.OK(c, dto.FromCustodyClosure(closure, issues.Warnings()))
}

