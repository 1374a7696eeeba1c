package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/broadcast"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/config"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/database"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/gemini"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Bootstrap the schema
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	positionRepo := repository.NewPositionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create the websocket hub for portfolio broadcasts
	hub := broadcast.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Create services
	systemService := service.NewSystemService(db)
	settingsService, err := service.NewSettingsService(settingsRepo, cfg.Gemini.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}
	pricingService := service.NewPricingService(
		priceRepo,
		yahoo.NewFinanceClient(),
		cfg.Market.Timeout,
	)
	historyService := service.NewHistoryService(historyRepo)
	portfolioService := service.NewPortfolioService(
		db,
		positionRepo,
		pricingService,
		hub,
	)
	reviewService := service.NewReviewService(
		settingsService,
		gemini.NewClient(cfg.Gemini.Model),
		cfg.Gemini.APIKey,
	)

	// Create router
	router := api.NewRouter(systemService, settingsService, pricingService, portfolioService, historyService, reviewService, hub, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
