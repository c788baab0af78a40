package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sales-warehouse/backend/internal/api"
	"sales-warehouse/backend/internal/api/handlers"
	"sales-warehouse/backend/internal/auth"
	"sales-warehouse/backend/internal/config"
	"sales-warehouse/backend/internal/db"
	"sales-warehouse/backend/internal/health"
	"sales-warehouse/backend/internal/logger"
	"sales-warehouse/backend/internal/repository"
	"sales-warehouse/backend/internal/scheduler"
	"sales-warehouse/backend/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load and validate configuration first (before logger)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger with configuration
	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	// Run migrations before connecting to the warehouse
	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize database
	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(database.Pool)
	productRepo := repository.NewProductRepository(database.Pool)
	archiveRepo := repository.NewArchiveRepository(database.Pool)
	mergeRepo := repository.NewMergeRepository(database)

	// Initialize services
	dedupService := service.NewDedupService(customerRepo, mergeRepo)
	archiveService := service.NewArchiveService(archiveRepo, customerRepo)

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	dedupHandler := handlers.NewDedupHandler(dedupService)
	archiveHandler := handlers.NewArchiveHandler(archiveService)

	// Initialize and start the scheduler when enabled
	if cfg.Scheduler.Enabled {
		cronScheduler := scheduler.NewScheduler(dedupService, archiveService, cfg.Scheduler)
		if err := cronScheduler.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer cronScheduler.Stop()
	}

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.ErrorHandlerMiddleware())

	// Health check endpoint
	healthChecker := health.NewHealthChecker(database, cfg.Database.HealthTimeout)
	router.GET("/health", healthChecker.Handler)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(auth.APIKeyMiddleware(cfg))
	{
		// Customer master routes
		customers := v1.Group("/customers")
		{
			customers.GET("", customerHandler.ListCustomers)
			customers.PUT("", customerHandler.UpsertCustomer)
			customers.GET("/next-id", customerHandler.NextCustomerID)
			customers.GET("/markets", customerHandler.ListMarkets)
			customers.GET("/merchant-groups", customerHandler.ListMerchantGroups)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.POST("/:id/restore", archiveHandler.RestoreCustomer)
		}

		// Product master routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/next-id", productHandler.NextProductID)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("/:id/restore", archiveHandler.RestoreProduct)
		}

		// Deduplication routes
		dedup := v1.Group("/dedup")
		{
			dedup.POST("/matches", dedupHandler.FindMatches)
			dedup.POST("/merge", dedupHandler.Merge)
		}

		// Archive routes
		archive := v1.Group("/archive")
		{
			archive.GET("/preview", archiveHandler.PreviewArchive)
			archive.GET("/customers", archiveHandler.ListCustomersToArchive)
			archive.GET("/products", archiveHandler.ListProductsToArchive)
			archive.POST("/customers", archiveHandler.ArchiveCustomers)
			archive.POST("/products", archiveHandler.ArchiveProducts)
			archive.POST("/cutoff", archiveHandler.ArchiveByCutoff)
		}
	}

	// Start server with configured bind address
	addr := cfg.GetBindAddress()
	// Use a listener so we can discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	// Give outstanding requests a configured timeout to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
