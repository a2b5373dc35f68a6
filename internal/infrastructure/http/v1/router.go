// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tillbox/internal/domain/auth"
	"tillbox/internal/domain/catalogs/category"
	"tillbox/internal/domain/catalogs/manufacturer"
	"tillbox/internal/domain/catalogs/product"
	"tillbox/internal/domain/printing"
	"tillbox/internal/domain/stock"
	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/http/v1/handlers"
	"tillbox/internal/infrastructure/http/v1/middleware"
	"tillbox/internal/infrastructure/storage/postgres"
	"tillbox/internal/infrastructure/storage/postgres/catalog_repo"
	"tillbox/internal/infrastructure/storage/postgres/document_repo"
	"tillbox/internal/infrastructure/storage/postgres/print_repo"
	"tillbox/internal/infrastructure/storage/postgres/register_repo"
	"tillbox/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs repository statements on the pool or an open transaction
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator generates transaction document numbers
	Numerator transaction.NumberGenerator

	// PrintCodec decompresses stored receipt documents
	PrintCodec *printing.DocumentCodec

	// Metrics instruments requests and serves /metrics
	Metrics *middleware.Metrics

	// CORSOrigins lists allowed browser origins; empty allows any origin
	CORSOrigins []string

	// Version is reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Everything except login requires a valid token.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerAuthRoutes(v1, protected, cfg)
		registerCatalogRoutes(protected, cfg)
		registerTransactionRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerPrintRoutes(protected, cfg)
	}

	return router
}

// corsConfig builds the CORS policy. Credentials are only allowed with an
// explicit origin list.
func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	return corsCfg
}

// registerAuthRoutes registers authentication and user management endpoints.
func registerAuthRoutes(public, protected *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
	authHandler.RegisterRoutes(public, protected)
}

// registerCatalogRoutes registers master data endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- MANUFACTURERS ---
	manufacturerRepo := catalog_repo.NewManufacturerRepo(cfg.TxManager)
	manufacturerService := manufacturer.NewService(manufacturerRepo, cfg.TxManager)
	{
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*manufacturer.Manufacturer]{
			Service: manufacturerService.CatalogService,
			Schema:  manufacturer.ListSchema,
			Name:    "manufacturer",
			Plural:  "manufacturers",
			New:     func() *manufacturer.Manufacturer { return &manufacturer.Manufacturer{} },
		})
		handler.RegisterRoutes(rg.Group("/manufacturers"))
	}

	// --- CATEGORIES ---
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	categoryService := category.NewService(categoryRepo, cfg.TxManager)
	{
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*category.Category]{
			Service: categoryService.CatalogService,
			Schema:  category.ListSchema,
			Name:    "category",
			Plural:  "categories",
			New:     func() *category.Category { return &category.Category{} },
		})
		handler.RegisterRoutes(rg.Group("/categories"))
	}

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, categoryService, manufacturerService, cfg.TxManager)
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*product.Product]{
			Service: service.CatalogService,
			Schema:  product.ListSchema,
			Name:    "product",
			Plural:  "products",
			New:     func() *product.Product { return &product.Product{} },
		})
		handler.RegisterRoutes(rg.Group("/products"))
	}
}

// registerTransactionRoutes registers transaction document endpoints.
func registerTransactionRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	repo := document_repo.NewTransactionRepo(cfg.TxManager)
	service := transaction.NewService(repo, productRepo, cfg.Numerator, cfg.TxManager)

	handler := handlers.NewTransactionHandler(baseHandler, service)
	handler.RegisterRoutes(rg)
}

// registerStockRoutes registers stock view endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	repo := register_repo.NewStockRepo(cfg.TxManager)
	service := stock.NewService(repo, productRepo)

	handler := handlers.NewStockHandler(baseHandler, service)
	handler.RegisterRoutes(rg)
}

// registerPrintRoutes registers receipt print queue endpoints.
func registerPrintRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	transactionRepo := document_repo.NewTransactionRepo(cfg.TxManager)
	transactionService := transaction.NewService(transactionRepo, productRepo, cfg.Numerator, cfg.TxManager)

	repo := print_repo.NewPrintJobRepo(cfg.TxManager)
	service := printing.NewService(repo, transactionService, cfg.PrintCodec)

	handler := handlers.NewPrintJobHandler(baseHandler, service)
	handler.RegisterRoutes(rg)
}
