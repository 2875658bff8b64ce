package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/stayledger-api/internal/config"
	domainRepo "github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/internal/presentation/http/handler"
	"github.com/sangkips/stayledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Host        *handler.HostHandler
	Property    *handler.PropertyHandler
	Client      *handler.ClientHandler
	Pincode     *handler.PincodeHandler
	Reservation *handler.ReservationHandler
	Invoice     *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is built from Cfg.RateLimit when nil. The owner calls Stop.
	RateLimiter *middleware.UserRateLimiter
}

// NewRateLimiter builds the per-user limiter from the rate limit settings.
func NewRateLimiter(cfg *config.Config) *middleware.UserRateLimiter {
	return middleware.NewUserRateLimiter(middleware.RateLimiterConfigFor(
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.Duration)*time.Second,
	))
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	if deps.RateLimiter == nil {
		deps.RateLimiter = NewRateLimiter(deps.Cfg)
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"rate_limiter": deps.RateLimiter.Stats(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		protected.Use(deps.RateLimiter.Middleware())

		registerDirectoryRoutes(protected, h)
		registerReservationRoutes(protected, h, deps)
		registerInvoiceRoutes(protected, h, deps)
	}

	return router
}

func registerDirectoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Typeahead lookups are open to every authenticated user
	protected.GET("/hosts/search", h.Host.Search)
	protected.GET("/properties/search", h.Property.Search)
	protected.GET("/clients/search", h.Client.Search)
	protected.GET("/pincodes/search", h.Pincode.Search)
	protected.GET("/pincodes/:code", h.Pincode.Get)

	directory := protected.Group("")
	directory.Use(middleware.RequirePermission(middleware.PermissionDirectory))

	hosts := directory.Group("/hosts")
	{
		hosts.GET("", h.Host.List)
		hosts.POST("", h.Host.Create)
		hosts.GET("/:id", h.Host.Get)
		hosts.PUT("/:id", h.Host.Update)
		hosts.DELETE("/:id", h.Host.Delete)
	}

	properties := directory.Group("/properties")
	{
		properties.GET("", h.Property.List)
		properties.POST("", h.Property.Create)
		properties.GET("/:id", h.Property.Get)
		properties.PUT("/:id", h.Property.Update)
		properties.DELETE("/:id", h.Property.Delete)
	}

	clients := directory.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}
}

func registerReservationRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	reservations := protected.Group("/reservations")
	reservations.Use(middleware.RequirePermission(middleware.PermissionReservations))
	{
		reservations.POST("/quote", h.Reservation.Quote)
		reservations.POST("/availability", h.Reservation.CheckAvailability)
		reservations.GET("", h.Reservation.List)
		reservations.GET("/:id", h.Reservation.Get)
		reservations.PATCH("/:id/status", h.Reservation.UpdateStatus)
		reservations.POST("/:id/cancel", h.Reservation.Cancel)
		reservations.DELETE("/:id", h.Reservation.Delete)

		idempotent := reservations.Group("")
		idempotent.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))
		idempotent.POST("", h.Reservation.Create)
		idempotent.PUT("/:id", h.Reservation.Update)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	invoices.Use(middleware.RequirePermission(middleware.PermissionInvoices))
	{
		invoices.POST("/totals", h.Invoice.Totals)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("/:id/archive", h.Invoice.Archive)

		idempotent := invoices.Group("")
		idempotent.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))
		idempotent.POST("", h.Invoice.Create)
		idempotent.PUT("/:id", h.Invoice.Update)
	}
}
