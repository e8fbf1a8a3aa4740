// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"procura/internal/domain/audit"
	"procura/internal/domain/costing"
	"procura/internal/domain/documents/inventory_count"
	"procura/internal/domain/documents/purchase_order"
	"procura/internal/infrastructure/http/v1/dto"
	"procura/internal/infrastructure/http/v1/handlers"
	"procura/internal/infrastructure/http/v1/middleware"
	"procura/internal/infrastructure/storage/postgres"
	"procura/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Store holds the active catalog snapshot.
	Store *costing.Store

	// Costing resolves item costs against Store.
	Costing *costing.Service

	// Reloader backs the admin reload endpoint.
	Reloader handlers.Reloader

	// ReloadHistory lists past reloads. Optional.
	ReloadHistory handlers.ReloadHistory

	// Pool is the catalog database, used by health checks. Optional.
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AdminRole is required on /admin routes.
	AdminRole string

	AppName        string
	Version        string
	Debug          bool
	TrustedProxies []string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Locale())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Store, cfg.AppName, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(v1, cfg)
		registerCostingRoutes(v1, cfg)
		registerDocumentRoutes(v1, cfg)
		registerAdminRoutes(v1, cfg)
	}

	return router, nil
}

// registerCatalogRoutes registers read-only catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewCatalogHandler(handlers.NewBaseHandler(), cfg.Costing)

	rg.GET("/catalog", handler.Info)

	units := rg.Group("/units")
	{
		units.GET("", handler.ListUnits)
		units.GET("/:id", handler.GetUnit)
		units.GET("/:id/path", handler.UnitPath)
	}

	items := rg.Group("/items")
	{
		items.GET("", handler.ListItems)
		items.GET("/:id", handler.GetItem)
	}
}

// registerCostingRoutes registers engine endpoints.
func registerCostingRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewCostingHandler(handlers.NewBaseHandler(), cfg.Costing)

	group := rg.Group("/costing")
	group.POST("/resolve", handler.Resolve)
	group.POST("/lines", handler.ComputeLines)
	group.POST("/aggregate", handler.Aggregate)
}

// registerDocumentRoutes registers document calculation endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	// --- PURCHASE ORDER ---
	purchaseOrders := purchase_order.NewService(cfg.Costing)
	purchaseOrders.Hooks().OnBeforeCalculate(audit.CreatedByHook[*purchase_order.PurchaseOrder]())
	purchaseOrders.Hooks().OnBeforeTransition(audit.UpdatedByHook[*purchase_order.PurchaseOrder]())

	// --- INVENTORY COUNT ---
	inventoryCounts := inventory_count.NewService(cfg.Costing)
	inventoryCounts.Hooks().OnBeforeCalculate(audit.CreatedByHook[*inventory_count.InventoryCount]())

	handler := handlers.NewDocumentHandler(handlers.NewBaseHandler(), purchaseOrders, inventoryCounts)

	docs := rg.Group("/documents")
	if cfg.JWTValidator != nil {
		docs.Use(middleware.OptionalAuth(cfg.JWTValidator))
	}
	docs.POST("/purchase-orders/calculate", handler.CalculatePurchaseOrder)
	docs.POST("/inventory-counts/calculate", handler.CalculateInventoryCount)
	docs.POST("/custody-closures/calculate", handler.CalculateCustodyClosure)
}

// registerAdminRoutes registers JWT-protected administration endpoints.
func registerAdminRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Reloader == nil || cfg.JWTValidator == nil {
		return
	}

	role := cfg.AdminRole
	if role == "" {
		role = "admin"
	}

	handler := handlers.NewAdminHandler(handlers.NewBaseHandler(), cfg.Reloader, cfg.ReloadHistory)

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(cfg.JWTValidator))
	admin.Use(middleware.RequireRole(role))
	{
		admin.POST("/catalog/reload", handler.ReloadCatalog)
		admin.GET("/catalog/reloads", handler.ReloadHistory)
	}
}
