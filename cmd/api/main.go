package main

import (
	"log"
	"os"

	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/config"
	"github.com/fieldserv/dms-api/internal/infrastructure/database"
	"github.com/fieldserv/dms-api/internal/infrastructure/repository"
	"github.com/fieldserv/dms-api/internal/presentation/http/handler"
	"github.com/fieldserv/dms-api/internal/presentation/http/routes"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	stockRepo := repository.NewStockRepository(db)
	receiptRepo := repository.NewStockReceiptRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	syncRepo := repository.NewSyncRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	tenantService := service.NewTenantService(tenantRepo)
	pricingService := service.NewPricingService()
	schemeService := service.NewSchemeService(schemeRepo, productRepo)
	stockService := service.NewStockService(stockRepo, receiptRepo, productRepo, txManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, productRepo, tenantRepo,
		pricingService, schemeService, stockService, txManager, &cfg.Invoice)
	syncService := service.NewSyncService(syncRepo, customerRepo, visitRepo, invoiceService, txManager, &cfg.Sync)
	masterService := service.NewMasterDataService(productRepo, customerRepo, schemeRepo, targetRepo, referenceRepo, stockService)
	customerService := service.NewCustomerService(customerRepo, referenceRepo)
	visitService := service.NewVisitService(visitRepo, customerRepo)
	productService := service.NewProductService(productRepo, brandRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Tenant:   handler.NewTenantHandler(tenantService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Visit:    handler.NewVisitHandler(visitService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Stock:    handler.NewStockHandler(stockService),
		Scheme:   handler.NewSchemeHandler(schemeService),
		Sync:     handler.NewSyncHandler(syncService, masterService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		TenantService:   tenantService,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
