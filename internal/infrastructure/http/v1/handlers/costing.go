package handlers

import (
	"github.com/gin-gonic/gin"

	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/costing"
	"procura/internal/infrastructure/http/v1/dto"
)

// CostingHandler exposes the conversion engine and line arithmetic.
type CostingHandler struct {
	*BaseHandler
	costing *costing.Service
}

// NewCostingHandler creates a new costing handler.
func NewCostingHandler(base *BaseHandler, svc *costing.Service) *CostingHandler {
	return &CostingHandler{BaseHandler: base, costing: svc}
}

// Resolve returns the cost of one unit of an item.
// POST /api/v1/costing/resolve
func (h *CostingHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unitID := id.Nil()
	if req.UnitID != "" {
		unitID = id.MustParse(req.UnitID)
	}

	ctx := c.Request.Context()
	var issues dto.NumericIssues
	var (
		it  item.Item
		res costing.Resolution
		err error
	)
	if req.ItemID != nil {
		it, res, err = h.costing.ResolveItemCost(ctx, id.MustParse(*req.ItemID), unitID)
	} else {
		it, err = req.Item.ToEntity(&issues)
		if err == nil {
			res, err = h.costing.Resolve(ctx, it, unitID)
		}
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromResolution(it, unitID, res, issues.Warnings()))
}

// ComputeLines runs line arithmetic on caller-supplied costs.
// POST /api/v1/costing/lines
func (h *CostingHandler) ComputeLines(c *gin.Context) {
	var req dto.ComputeLinesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := req.Compute()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// Aggregate sums computed lines into document totals.
// POST /api/v1/costing/aggregate
func (h *CostingHandler) Aggregate(c *gin.Context) {
	var req dto.AggregateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.OK(c, req.Aggregate())
}
