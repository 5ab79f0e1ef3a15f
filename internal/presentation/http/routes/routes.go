package routes

import (
	"time"

	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/config"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	domainRepo "github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/internal/presentation/http/handler"
	"github.com/fieldserv/dms-api/internal/presentation/http/middleware"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Tenant   *handler.TenantHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Visit    *handler.VisitHandler
	Invoice  *handler.InvoiceHandler
	Stock    *handler.StockHandler
	Scheme   *handler.SchemeHandler
	Sync     *handler.SyncHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantService   *service.TenantService
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes: authenticated, tenant-scoped, rate limited
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantService))

		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.Profile)

	// Sync
	sync := protected.Group("/sync")
	{
		sync.POST("/push", h.Sync.Push)
		sync.GET("/master", h.Sync.Master)
	}

	// Invoices; creation replays through the idempotency cache
	invoices := protected.Group("/invoices")
	{
		invoices.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/void", middleware.RequireRole(enum.RoleAdmin, enum.RoleManager), h.Invoice.Void)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
	}

	// Visits
	visits := protected.Group("/visits")
	{
		visits.POST("/check-in", h.Visit.CheckIn)
		visits.POST("/:id/check-out", h.Visit.CheckOut)
		visits.GET("", h.Visit.List)
	}

	// Catalog
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
	}
	protected.GET("/brands", h.Product.Brands)

	// Stock
	stock := protected.Group("/stock")
	{
		stock.GET("", h.Stock.List)
		stock.GET("/receipts", h.Stock.ListReceipts)
		stock.POST("/receipts", h.Stock.CreateReceipt)
		stock.POST("/receipts/:id/approve", middleware.RequireRole(enum.RoleAdmin, enum.RoleManager), h.Stock.ApproveReceipt)
	}

	// Schemes
	schemes := protected.Group("/schemes")
	{
		schemes.GET("", h.Scheme.ListActive)
		schemes.POST("", middleware.RequireRole(enum.RoleAdmin, enum.RoleManager), h.Scheme.Create)
	}

	// Tenant administration
	tenants := protected.Group("/tenants")
	tenants.Use(middleware.RequireRole(enum.RoleAdmin))
	{
		tenants.POST("", h.Tenant.Create)
		tenants.GET("", h.Tenant.List)
		tenants.GET("/:id", h.Tenant.Get)
		tenants.POST("/:id/suspend", h.Tenant.Suspend)
		tenants.POST("/:id/activate", h.Tenant.Activate)
	}
}
