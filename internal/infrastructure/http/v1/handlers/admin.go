package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"procura/internal/core/apperror"
	"procura/internal/domain/costing"
	"procura/internal/infrastructure/http/v1/dto"
	"procura/internal/infrastructure/storage/postgres"
)

// Reloader rebuilds the catalog snapshot.
type Reloader interface {
	Reload(ctx context.Context, trigger postgres.ReloadTrigger) (*costing.Snapshot, error)
}

// ReloadHistory lists past reloads.
type ReloadHistory interface {
	Recent(ctx context.Context, limit int) ([]postgres.ReloadEntry, error)
}

// AdminHandler serves catalog administration endpoints.
type AdminHandler struct {
	*BaseHandler
	reloader Reloader
	history  ReloadHistory
}

// NewAdminHandler creates a new admin handler. history may be nil.
func NewAdminHandler(base *BaseHandler, reloader Reloader, history ReloadHistory) *AdminHandler {
	return &AdminHandler{BaseHandler: base, reloader: reloader, history: history}
}

// ReloadCatalog rebuilds the snapshot now. A failed reload keeps serving
// the previous snapshot and reports 503.
// POST /api/v1/admin/catalog/reload
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	snap, err := h.reloader.Reload(c.Request.Context(), postgres.TriggerManual)
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewUnavailable("catalog reload failed").WithCause(err)
		}
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSnapshot(snap))
}

// ReloadHistory returns recent reloads, newest first.
// GET /api/v1/admin/catalog/reloads?limit=20
func (h *AdminHandler) ReloadHistory(c *gin.Context) {
	if h.history == nil {
		h.OK(c, dto.NewListResponse([]postgres.ReloadEntry{}, 0))
		return
	}

	limit, ok := h.ParseIntQuery(c, "limit", 20)
	if !ok {
		return
	}
	if limit < 1 || limit > 200 {
		h.Error(c, apperror.NewValidation("limit must be between 1 and 200").WithDetail("field", "limit"))
		return
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.OK(c, dto.NewListResponse(entries, 0))
}
