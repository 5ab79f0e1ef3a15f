package database

import (
	"fmt"
	"log"
	"time"

	"github.com/fieldserv/dms-api/internal/config"
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Tenant and user entities
		&entity.Tenant{},
		&entity.User{},

		// Master data entities
		&entity.Brand{},
		&entity.Product{},
		&entity.Reference{},
		&entity.Customer{},
		&entity.DiscountScheme{},
		&entity.Target{},

		// Stock entities
		&entity.StockLine{},
		&entity.StockReceipt{},
		&entity.StockReceiptLine{},
		&entity.StockDeduction{},

		// Transaction entities
		&entity.Invoice{},
		&entity.InvoiceLine{},
		&entity.InvoiceSequence{},
		&entity.Visit{},

		// System entities
		&entity.SyncRecord{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a demo tenant, default users and
// a small product catalog so a fresh install is usable immediately.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var tenant entity.Tenant
	if err := db.Where("code = ?", "KHI01").First(&tenant).Error; err != nil {
		city := "Karachi"
		tenant = entity.Tenant{
			Code:   "KHI01",
			Name:   "Karachi Central Distribution",
			City:   &city,
			Status: enum.TenantStatusActive,
		}
		if err := db.Create(&tenant).Error; err != nil {
			return fmt.Errorf("failed to create default tenant: %w", err)
		}
	}

	// Admins have no home tenant; they select one per request.
	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminUsername == "" {
		adminUsername = "admin"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingAdmin entity.User
	if err := db.Where("username = ?", adminUsername).First(&existingAdmin).Error; err != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := entity.User{
			FirstName: "System",
			LastName:  "Administrator",
			Username:  adminUsername,
			Password:  string(hashed),
			Role:      enum.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Warning: failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user created: %s", adminUsername)
		}
	}

	var existingBooker entity.User
	if err := db.Where("username = ?", "booker1").First(&existingBooker).Error; err != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte("booker123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash booker password: %w", err)
		}
		booker := entity.User{
			TenantID:  &tenant.ID,
			FirstName: "Demo",
			LastName:  "Booker",
			Username:  "booker1",
			Password:  string(hashed),
			Role:      enum.RoleBooker,
		}
		if err := db.Create(&booker).Error; err != nil {
			log.Printf("Warning: failed to create booker user: %v", err)
		}
	}

	var brand entity.Brand
	if err := db.Where("name = ?", "Shield").First(&brand).Error; err != nil {
		brand = entity.Brand{Name: "Shield"}
		if err := db.Create(&brand).Error; err != nil {
			log.Printf("Warning: failed to create brand: %v", err)
		}
	}

	products := []entity.Product{
		{
			BrandID:       &brand.ID,
			Code:          "SH-TB-50",
			Name:          "Shield Toothbrush Soft 50pc",
			PiecesPerPack: 12,
			TradePrice:    decimal.NewFromFloat(85.50),
			RetailPrice:   decimal.NewFromFloat(100.00),
			GSTRate:       decimal.NewFromFloat(18.00),
			UnitPrice:     decimal.NewFromFloat(85.50),
		},
		{
			BrandID:        &brand.ID,
			Code:           "SH-FD-250",
			Name:           "Shield Feeder 250ml",
			PiecesPerPack:  6,
			TradePrice:     decimal.NewFromFloat(210.00),
			RetailPrice:    decimal.NewFromFloat(250.00),
			GSTRate:        decimal.NewFromFloat(18.00),
			FurtherTaxRate: decimal.NewFromFloat(3.00),
			UnitPrice:      decimal.NewFromFloat(210.00),
		},
	}
	for i := range products {
		var existing entity.Product
		if err := db.Where("code = ?", products[i].Code).First(&existing).Error; err != nil {
			if err := db.Create(&products[i]).Error; err != nil {
				log.Printf("Warning: failed to create product %s: %v", products[i].Code, err)
			}
		} else {
			products[i] = existing
		}
	}

	references := []entity.Reference{
		{Type: "visit_outcome", Value: "productive"},
		{Type: "visit_outcome", Value: "unproductive"},
		{Type: "visit_outcome", Value: "shop_closed"},
		{Type: "customer_channel", Value: "retail"},
		{Type: "customer_channel", Value: "wholesale"},
	}
	for i := range references {
		var existing entity.Reference
		if err := db.Where("type = ? AND value = ?", references[i].Type, references[i].Value).
			First(&existing).Error; err != nil {
			if err := db.Create(&references[i]).Error; err != nil {
				log.Printf("Warning: failed to create reference %s/%s: %v",
					references[i].Type, references[i].Value, err)
			}
		}
	}

	var stockCount int64
	db.Model(&entity.StockLine{}).Where("tenant_id = ?", tenant.ID).Count(&stockCount)
	if stockCount == 0 && len(products) > 0 {
		lines := []entity.StockLine{
			{
				TenantID:   tenant.ID,
				ProductID:  products[0].ID,
				BatchNo:    "B-2409-01",
				ExpiryDate: time.Now().AddDate(0, 6, 0),
				Quantity:   240,
				UnitCost:   decimal.NewFromFloat(72.00),
			},
			{
				TenantID:   tenant.ID,
				ProductID:  products[0].ID,
				BatchNo:    "B-2412-02",
				ExpiryDate: time.Now().AddDate(1, 0, 0),
				Quantity:   480,
				UnitCost:   decimal.NewFromFloat(74.50),
			},
		}
		for i := range lines {
			if err := db.Create(&lines[i]).Error; err != nil {
				log.Printf("Warning: failed to create stock line: %v", err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
