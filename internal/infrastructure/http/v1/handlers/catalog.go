package handlers

import (
	"github.com/gin-gonic/gin"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/costing"
	"procura/internal/infrastructure/http/v1/dto"
)

// CatalogHandler exposes the active catalog snapshot read-only.
type CatalogHandler struct {
	*BaseHandler
	costing *costing.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, svc *costing.Service) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, costing: svc}
}

// Info describes the active snapshot, including graph diagnostics.
// GET /api/v1/catalog
func (h *CatalogHandler) Info(c *gin.Context) {
	snap, err := h.costing.Snapshot()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSnapshot(snap))
}

// ListUnits returns every unit of the snapshot ordered by code.
// GET /api/v1/units
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	snap, err := h.costing.Snapshot()
	if err != nil {
		h.Error(c, err)
		return
	}

	l := h.Locale(c)
	units := snap.Graph().Units()
	out := make([]dto.UnitResponse, len(units))
	for i, u := range units {
		out[i] = dto.FromUnit(u, l)
	}
	h.OK(c, dto.NewListResponse(out, snap.Generation))
}

// GetUnit returns one unit.
// GET /api/v1/units/:id
func (h *CatalogHandler) GetUnit(c *gin.Context) {
	unitID, ok := h.pathID(c)
	if !ok {
		return
	}
	snap, err := h.costing.Snapshot()
	if err != nil {
		h.Error(c, err)
		return
	}
	u, found := snap.Graph().FindUnit(unitID)
	if !found {
		h.Error(c, apperror.NewNotFound("unit", unitID.String()))
		return
	}
	h.OK(c, dto.FromUnit(u, h.Locale(c)))
}

// UnitPath walks from :id towards ?to= and reports the factor or the reason
// no path exists.
// GET /api/v1/units/:id/path?to=<id>
func (h *CatalogHandler) UnitPath(c *gin.Context) {
	from, ok := h.pathID(c)
	if !ok {
		return
	}
	var q dto.UnitPathQuery
	if !h.BindQuery(c, &q) {
		return
	}
	to := id.MustParse(q.To)

	snap, err := h.costing.Snapshot()
	if err != nil {
		h.Error(c, err)
		return
	}

	p, walkErr := snap.Graph().TraverseUp(from, to)
	h.OK(c, dto.FromPath(from.String(), to.String(), p, walkErr))
}

// ListItems returns every item of the snapshot ordered by code.
// GET /api/v1/items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	snap, err := h.costing.Snapshot()
	if err != nil {
		h.Error(c, err)
		return
	}

	l := h.Locale(c)
	items := snap.Items()
	out := make([]dto.ItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.FromItem(it, l)
	}
	h.OK(c, dto.NewListResponse(out, snap.Generation))
}

// GetItem returns one item.
// GET /api/v1/items/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}
	snap, err := h.costing.Snapshot()
	if err != nil {
		h.Error(c, err)
		return
	}
	it, found := snap.FindItem(itemID)
	if !found {
		h.Error(c, apperror.NewNotFound("item", itemID.String()))
		return
	}
	h.OK(c, dto.FromItem(it, h.Locale(c)))
}

func (h *CatalogHandler) pathID(c *gin.Context) (id.ID, bool) {
	v, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "id").WithDetail("value", c.Param("id")))
		return id.Nil(), false
	}
	return v, true
}
