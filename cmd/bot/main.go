package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fotuneb/bot-e-commerce/internal/cache"
	"github.com/fotuneb/bot-e-commerce/internal/checkout"
	"github.com/fotuneb/bot-e-commerce/internal/config"
	"github.com/fotuneb/bot-e-commerce/internal/database"
	"github.com/fotuneb/bot-e-commerce/internal/handler"
	"github.com/fotuneb/bot-e-commerce/internal/ordernum"
	"github.com/fotuneb/bot-e-commerce/internal/repository"
	"github.com/fotuneb/bot-e-commerce/internal/router"
	"github.com/fotuneb/bot-e-commerce/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine, the environment may be set directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.InitSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Optional Redis product cache
	if cfg.Redis.Enabled() {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, product cache disabled")
		} else {
			defer rdb.Close()
			catalogRepo = cache.NewCachedCatalogRepository(catalogRepo, rdb, cfg.Redis.TTL, logger)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("product cache enabled")
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, logger)
	cartService := service.NewCartService(cartRepo, catalogRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, catalogRepo, ordernum.New(), logger)

	// Initialize checkout dialogue manager
	checkoutManager := checkout.NewManager(orderService, cfg.Checkout.SessionTTL, logger)
	defer checkoutManager.Close()

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutManager, logger)
	adminHandler := handler.NewAdminHandler(catalogService, orderService, logger)

	// Initialize router
	mux := router.New(catalogHandler, cartHandler, checkoutHandler, adminHandler, cfg.Auth.OperatorKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
