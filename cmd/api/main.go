package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/internal/config"
	"github.com/sangkips/stayledger-api/internal/infrastructure/cache"
	"github.com/sangkips/stayledger-api/internal/infrastructure/database"
	"github.com/sangkips/stayledger-api/internal/infrastructure/repository"
	"github.com/sangkips/stayledger-api/internal/infrastructure/storage"
	"github.com/sangkips/stayledger-api/internal/presentation/http/handler"
	"github.com/sangkips/stayledger-api/internal/presentation/http/routes"
	"github.com/sangkips/stayledger-api/pkg/email"
	"github.com/sangkips/stayledger-api/pkg/invoicepdf"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
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

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Optional lookup cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Redis unavailable, lookups will hit the database: %v", err)
		redisClient = nil
	}
	lookupCache := cache.NewLookupCache(redisClient, cfg.Redis.TTL)

	// Optional invoice archive
	var documentStore service.DocumentStore
	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Store(context.Background(), cfg.Storage)
		if err != nil {
			log.Printf("Warning: Document storage disabled: %v", err)
		} else {
			documentStore = store
		}
	}

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})
	if !emailService.Enabled() {
		log.Printf("Warning: SMTP not configured, guest confirmations disabled")
	}

	// Initialize repositories
	hostRepo := repository.NewHostRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	pincodeRepo := repository.NewPincodeRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	hostService := service.NewHostService(hostRepo, pincodeRepo, lookupCache)
	propertyService := service.NewPropertyService(propertyRepo, hostRepo, pincodeRepo, lookupCache)
	clientService := service.NewClientService(clientRepo, pincodeRepo, lookupCache)
	pincodeService := service.NewPincodeService(pincodeRepo, lookupCache)
	reservationService := service.NewReservationService(reservationRepo, propertyRepo, clientRepo, emailService)
	invoiceService := service.NewInvoiceService(invoiceRepo, reservationRepo, clientRepo, invoicepdf.Party{
		Name:      cfg.Pricing.SupplierName,
		Address:   cfg.Pricing.SupplierAddress,
		GSTIN:     cfg.Pricing.SupplierGSTIN,
		StateCode: cfg.Pricing.SupplierStateCode,
	}, documentStore)

	// Initialize handlers
	handlers := &routes.Handlers{
		Host:        handler.NewHostHandler(hostService),
		Property:    handler.NewPropertyHandler(propertyService),
		Client:      handler.NewClientHandler(clientService),
		Pincode:     handler.NewPincodeHandler(pincodeService),
		Reservation: handler.NewReservationHandler(reservationService),
		Invoice:     handler.NewInvoiceHandler(invoiceService),
	}

	// Setup routes
	rateLimiter := routes.NewRateLimiter(cfg)
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Purge expired idempotency keys so retried keys can be stored again
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			n, err := idempotencyRepo.DeleteExpired(ctx)
			if err != nil {
				log.Printf("Warning: Failed to purge idempotency keys: %v", err)
			} else if n > 0 {
				log.Printf("Purged %d expired idempotency keys", n)
			}
		}
	}()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server forced to shutdown: %v", err)
	}
	rateLimiter.Stop()
	log.Printf("Server stopped")
}
