// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"procura/internal/domain/costing"
	"procura/internal/infrastructure/storage/postgres"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	pool    *postgres.Pool
	store   *costing.Store
	app     string
	version string
}

// NewHealthHandler creates a new health handler. pool may be nil when the
// catalog is served from a seed file.
func NewHealthHandler(pool *postgres.Pool, store *costing.Store, app, version string) *HealthHandler {
	return &HealthHandler{pool: pool, store: store, app: app, version: version}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// Ready means a catalog snapshot is loaded and, if configured, the database answers.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	ready := true

	if h.store.Current() == nil {
		checks["catalog"] = "not loaded"
		ready = false
	} else {
		checks["catalog"] = "loaded"
	}

	if h.pool != nil {
		if err := h.pool.Ping(c.Request.Context()); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			ready = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     h.app,
		"version": h.version,
	}

	if snap := h.store.Current(); snap != nil {
		body["catalog"] = map[string]any{
			"generation":  snap.Generation,
			"loaded_at":   snap.LoadedAt.Format(time.RFC3339),
			"units":       snap.Graph().Len(),
			"items":       snap.ItemCount(),
			"diagnostics": len(snap.Diagnostics),
		}
	}

	if h.pool != nil {
		body["database"] = h.pool.Stats()
	}

	c.JSON(http.StatusOK, body)
}
