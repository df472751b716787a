package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/config"
	"github.com/dukapos/register-api/internal/infrastructure/database"
	"github.com/dukapos/register-api/internal/infrastructure/repository"
	"github.com/dukapos/register-api/internal/presentation/http/handler"
	"github.com/dukapos/register-api/internal/presentation/http/routes"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/dukapos/register-api/pkg/logger"
	"github.com/dukapos/register-api/pkg/printer"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	defer logger.Sync()

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

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	cartSnapshotRepo := repository.NewCartSnapshotRepository(db)
	heldBillRepo := repository.NewHeldBillRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Sweep expired idempotency keys in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: Failed to clean up idempotency keys: %v", err)
			}
		}
	}()

	// Initialize the display broadcast hub and pairing tokens
	hub := broadcast.NewHub(cfg.Display.BufferSize)
	displayTokens := utils.NewDisplayTokenManager(cfg.Display.TokenSecret, cfg.Display.TokenExpiry)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	promotionService := service.NewPromotionService(promotionRepo)
	couponService := service.NewCouponService(couponRepo)
	cartService := service.NewCartService(
		cartSnapshotRepo, productRepo, customerRepo,
		promotionService, couponService, hub, cfg.Loyalty,
	)
	receiptService := service.NewReceiptService(settingsRepo, customerRepo, thermalPrinter, cfg.Printer.Width)
	checkoutService := service.NewCheckoutService(
		cartService, couponService, receiptService,
		saleRepo, heldBillRepo, customerRepo, settingsRepo,
		hub, cfg.Loyalty,
	)
	productService := service.NewProductService(productRepo, categoryRepo)
	customerService := service.NewCustomerService(customerRepo, cfg.Loyalty)
	saleService := service.NewSaleService(saleRepo, receiptService)
	settingsService := service.NewSettingsService(settingsRepo)
	displayService := service.NewDisplayService(displayTokens, hub, cartService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Cart:      handler.NewCartHandler(cartService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Product:   handler.NewProductHandler(productService),
		Promotion: handler.NewPromotionHandler(promotionService),
		Coupon:    handler.NewCouponHandler(couponService),
		Customer:  handler.NewCustomerHandler(customerService),
		Sale:      handler.NewSaleHandler(saleService),
		Display:   handler.NewDisplayHandler(displayService),
		Settings:  handler.NewSettingsHandler(settingsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Flush pending cart mirrors on shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cartService.Flush()
		_ = thermalPrinter.Close()
		os.Exit(0)
	}()

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s on port %s", cfg.App.Name, port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
