// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/documents/sales_order"
	"varibulk/internal/domain/documents/stock_reconciliation"
	"varibulk/internal/domain/production"
	"varibulk/internal/domain/reports"
	"varibulk/internal/domain/variant"
	"varibulk/internal/infrastructure/http/v1/handlers"
	"varibulk/internal/infrastructure/http/v1/middleware"
	"varibulk/pkg/logger"
)

// RoleItemManager may create variants, attributes and template configuration.
// Lookups and reports only need a valid token.
const RoleItemManager = "item_manager"

// Services are the domain services the API exposes.
type Services struct {
	Variants        *variant.Service
	Items           *item.Service
	Attributes      *attribute.Service
	SalesOrders     *sales_order.Service
	Reconciliations *stock_reconciliation.Service
	Production      *production.Service
	Reports         *reports.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Health serves /health; built by the caller because it owns the pool
	Health *handlers.HealthHandler

	// PanicSink receives recovered panics; optional
	PanicSink middleware.PanicSink

	// ErrorLog serves /error-log; optional
	ErrorLog variant.ErrorLogReader

	// CORSAllowOrigins enables CORS when not empty
	CORSAllowOrigins []string

	// MaxUploadBytes caps imported workbooks
	MaxUploadBytes int64

	// Debug switches gin to debug mode
	Debug bool

	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery(cfg.PanicSink))
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if len(cfg.CORSAllowOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSAllowOrigins))
	}
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	if cfg.Health != nil {
		health := router.Group("/health")
		{
			health.GET("/live", cfg.Health.Live)
			health.GET("/ready", cfg.Health.Ready)
			health.GET("/info", cfg.Health.Info)
		}
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTValidator))
	{
		base := handlers.NewBaseHandler()
		registerVariantRoutes(v1, base, cfg)
		registerCatalogRoutes(v1, base, cfg)
		registerDocumentRoutes(v1, base, cfg)
		registerHookRoutes(v1, base, cfg)
		registerReportRoutes(v1, base, cfg)
		if cfg.ErrorLog != nil {
			errorLog := handlers.NewErrorLogHandler(base, cfg.ErrorLog)
			v1.GET("/error-log", middleware.RequireRole(RoleItemManager), errorLog.List)
		}
	}

	return router
}

// registerVariantRoutes registers bulk and single variant creation.
func registerVariantRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewVariantHandler(base, cfg.Services.Variants, cfg.MaxUploadBytes)

	variants := rg.Group("/variants")
	variants.POST("/batch", middleware.RequireRole(RoleItemManager), h.CreateBatch)
	variants.POST("/batch/import", middleware.RequireRole(RoleItemManager), h.ImportBatch)
	variants.POST("/resolve", h.Resolve)
}

// registerCatalogRoutes registers template and attribute endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	templateHandler := handlers.NewTemplateHandler(base, cfg.Services.Variants, cfg.Services.Items)
	templates := rg.Group("/templates")
	{
		templates.GET("/:name", templateHandler.Get)
		templates.GET("/:name/import-workbook", templateHandler.ImportWorkbook)
		templates.PUT("/:name/attributes", middleware.RequireRole(RoleItemManager), templateHandler.ConfigureAttributes)
	}

	attributeHandler := handlers.NewAttributeHandler(base, cfg.Services.Attributes, cfg.Services.Variants)
	attributes := rg.Group("/attributes")
	{
		attributes.POST("", middleware.RequireRole(RoleItemManager), attributeHandler.Create)
		attributes.GET("/:name", attributeHandler.Get)
		attributes.GET("/:name/values", attributeHandler.SearchValues)
	}
}

// registerDocumentRoutes registers variant resolution for document forms.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewDocumentsHandler(base, cfg.Services.SalesOrders, cfg.Services.Reconciliations)

	docs := rg.Group("/documents")
	docs.POST("/sales-orders/ensure-variants", h.EnsureSalesOrderVariants)
	docs.POST("/sales-orders/resolve-variant", h.ResolveSalesOrderVariant)
	docs.POST("/stock-reconciliations/resolve-variant", h.ResolveStockReconciliationVariant)
}

// registerHookRoutes registers production document callbacks.
func registerHookRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewHooksHandler(base, cfg.Services.Production)

	hooks := rg.Group("/hooks")
	hooks.POST("/work-orders/before-save", h.WorkOrderBeforeSave)
	hooks.POST("/stock-entries/before-save", h.StockEntryBeforeSave)
	hooks.POST("/vouchers/on-submit", h.VoucherSubmit)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewReportsHandler(base, cfg.Services.Reports)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/work-order-summary", h.GetWorkOrderSummary)
	reportsGroup.GET("/production-analytics", h.GetProductionAnalytics)
	reportsGroup.GET("/consumed-materials", h.GetConsumedMaterials)
}
