package routes

import (
	"time"

	"github.com/dukapos/register-api/internal/config"
	domainRepo "github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/internal/presentation/http/handler"
	"github.com/dukapos/register-api/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Product   *handler.ProductHandler
	Promotion *handler.PromotionHandler
	Coupon    *handler.CouponHandler
	Customer  *handler.CustomerHandler
	Sale      *handler.SaleHandler
	Display   *handler.DisplayHandler
	Settings  *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
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

	v1 := router.Group("/api/v1")
	{
		// Display routes authenticate with pairing tokens, not the register
		// header; EventSource clients cannot set custom headers.
		v1.GET("/display/stream", h.Display.Stream)
		v1.POST("/display/messages", h.Display.Message)

		// Catalog and back-office read side, no register identity needed
		v1.GET("/products", h.Product.List)
		v1.GET("/products/:id", h.Product.Get)
		v1.GET("/products/barcode/:barcode", h.Product.Scan)
		v1.GET("/categories", h.Product.ListCategories)
		v1.GET("/promotions", h.Promotion.List)
		v1.GET("/promotions/active", h.Promotion.ListActive)
		v1.POST("/coupons/validate", h.Coupon.Validate)
		v1.GET("/customers", h.Customer.List)
		v1.GET("/customers/lookup", h.Customer.LookupByPhone)
		v1.GET("/customers/:id", h.Customer.Get)
		v1.GET("/sales", h.Sale.List)
		v1.GET("/sales/:id", h.Sale.Get)
		v1.GET("/settings", h.Settings.Get)
		v1.PUT("/settings", h.Settings.Update)

		// Register-scoped routes
		register := v1.Group("")
		register.Use(middleware.RegisterMiddleware())

		// Per-register rate limiter
		rateLimiter := middleware.NewRegisterRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		register.Use(rateLimiter.Middleware())

		idempotency := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

		cart := register.Group("/cart")
		cart.Use(middleware.Idempotency(idempotency))
		{
			cart.GET("", h.Cart.Get)
			cart.POST("/items", h.Cart.AddItem)
			cart.PATCH("/items/:productId", h.Cart.UpdateQuantity)
			cart.DELETE("/items/:productId", h.Cart.RemoveItem)
			cart.DELETE("", h.Cart.Clear)
			cart.POST("/customer", h.Cart.AttachCustomer)
			cart.DELETE("/customer", h.Cart.DetachCustomer)
			cart.POST("/points", h.Cart.SetPoints)
			cart.POST("/coupon", h.Cart.ApplyCoupon)
			cart.DELETE("/coupon", h.Cart.RemoveCoupon)
		}

		checkout := register.Group("/checkout")
		{
			checkout.POST("/start", h.Checkout.StartPayment)
			// Confirm must never run twice for one payment
			checkout.POST("/confirm",
				middleware.IdempotencyRequired(idempotency), h.Checkout.ConfirmPayment)
			checkout.POST("/hold", middleware.Idempotency(idempotency), h.Checkout.Hold)
		}

		held := register.Group("/held-bills")
		{
			held.GET("", h.Checkout.ListHeld)
			held.POST("/:id/restore", h.Checkout.Restore)
			held.DELETE("/:id", h.Checkout.DeleteHeld)
		}

		register.GET("/sales/last", h.Sale.LastBill)
		register.POST("/sales/last/reprint", h.Sale.ReprintLast)
		register.POST("/display/pair", h.Display.Pair)
	}

	return router
}
