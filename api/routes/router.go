// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"beatbloom/internal/bookings"
	"beatbloom/internal/cancellation"
	"beatbloom/internal/catalog"
	"beatbloom/internal/notifications"
	"beatbloom/internal/payments"
	"beatbloom/internal/shared/config"
	"beatbloom/internal/shared/database"
	"beatbloom/internal/vendors"
	"beatbloom/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier notifications.Notifier
	gateway  payments.Gateway

	// Services shared across route groups
	catalogService catalog.Service
	vendorService  vendors.Service
	bookingService bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier notifications.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
		gateway:  payments.NewSandboxGateway(cfg.Policy.WebhookSecret),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Catalog and vendors first: the booking engine depends on both.
		r.setupCatalogRoutes(api)
		r.setupVendorRoutes(api)
		r.setupBookingRoutes(api)
		r.setupCancellationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "beatbloom-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "beatbloom-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupCatalogRoutes configures package catalog routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	r.catalogService = catalog.NewService(catalogRepo)
	catalogController := catalog.NewController(r.catalogService)

	catalog.SetupCatalogRoutes(rg, catalogController, r.config)
}

// setupVendorRoutes configures vendor directory routes
func (r *Router) setupVendorRoutes(rg *gin.RouterGroup) {
	vendorRepo := vendors.NewRepository(r.db.GetPostgreSQL())
	r.vendorService = vendors.NewService(vendorRepo)
	vendorController := vendors.NewController(r.vendorService)

	vendors.SetupVendorRoutes(rg, vendorController, r.config)
}

// setupBookingRoutes configures the booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	deduper := payments.NewIdempotencyStore(r.db.GetRedis(), r.config.Redis.IdempotencyTTL)

	r.bookingService = bookings.NewService(
		bookingRepo,
		r.catalogService,
		r.vendorService,
		r.gateway,
		deduper,
		r.notifier,
		r.config.Policy,
		logger.GetDefault().Logger,
	)
	bookingController := bookings.NewController(r.bookingService, r.gateway)

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// setupCancellationRoutes configures cancellation and refund routes
func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	cancellationService := cancellation.NewService(r.bookingService, r.gateway, logger.GetDefault().Logger)
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController, r.config)
}
