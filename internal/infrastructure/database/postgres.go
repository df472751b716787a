package database

import (
	"fmt"
	"log"
	"time"

	"github.com/dukapos/register-api/internal/config"
	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/dukapos/register-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
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
		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Promotion entities
		&entity.Promotion{},
		&entity.Coupon{},
		&entity.CouponRedemption{},

		// Loyalty entities
		&entity.Customer{},

		// Register entities
		&entity.CartSnapshot{},
		&entity.HeldBill{},
		&entity.HeldBillItem{},
		&entity.Sale{},
		&entity.SaleItem{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.StoreSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (settings and a small
// demo catalog for development setups)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Ensure the settings singleton exists
	var settings entity.StoreSettings
	if err := db.First(&settings).Error; err != nil {
		settings = entity.StoreSettings{}
		if err := db.Create(&settings).Error; err != nil {
			log.Printf("Warning: failed to create store settings: %v", err)
		}
	}

	// Skip catalog seeding when products already exist
	var productCount int64
	db.Model(&entity.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Println("Catalog already seeded, skipping")
		return nil
	}

	categories := []entity.Category{
		{Name: "Beverages", Slug: "beverages"},
		{Name: "Snacks", Slug: "snacks"},
		{Name: "Household", Slug: "household"},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Printf("Warning: failed to create category %s: %v", categories[i].Name, err)
		}
	}

	products := []entity.Product{
		{CategoryID: &categories[0].ID, Name: "Soda 500ml", Barcode: "6001001", Price: 8000},
		{CategoryID: &categories[0].ID, Name: "Drinking Water 1L", Barcode: "6001002", Price: 5000},
		{CategoryID: &categories[0].ID, Name: "Fresh Juice 300ml", Barcode: "6001003", Price: 12000},
		{CategoryID: &categories[1].ID, Name: "Potato Crisps 120g", Barcode: "6002001", Price: 15000},
		{CategoryID: &categories[1].ID, Name: "Chocolate Bar", Barcode: "6002002", Price: 10000},
		{CategoryID: &categories[2].ID, Name: "Bar Soap", Barcode: "6003001", Price: 9000},
		{CategoryID: &categories[2].ID, Name: "Washing Powder 1kg", Barcode: "6003002", Price: 25000},
	}
	for i := range products {
		products[i].Slug = utils.Slugify(products[i].Name)
		if err := db.Create(&products[i]).Error; err != nil {
			log.Printf("Warning: failed to create product %s: %v", products[i].Name, err)
		}
	}

	// Demo promotion: 10% off beverages
	promo := entity.Promotion{
		Title:         "Beverage Special",
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: 10,
		Products:      products[:3],
	}
	if err := db.Create(&promo).Error; err != nil {
		log.Printf("Warning: failed to create promotion: %v", err)
	}

	// Demo coupon
	expiry := time.Now().AddDate(1, 0, 0)
	coupon := entity.Coupon{
		Code:          "KARIBU50",
		DiscountType:  enum.DiscountTypeFixedAmount,
		DiscountValue: 5000,
		MinOrderValue: 20000,
		ExpiresAt:     &expiry,
	}
	if err := db.Create(&coupon).Error; err != nil {
		log.Printf("Warning: failed to create coupon: %v", err)
	}

	// Demo loyalty member
	customer := entity.Customer{
		Name:   "Walk-in Regular",
		Phone:  "+254700000001",
		Points: 2500,
	}
	if err := db.Create(&customer).Error; err != nil {
		log.Printf("Warning: failed to create customer: %v", err)
	}

	log.Println("Default data seeding completed")
	return nil
}
