package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/handlers"
	custommiddleware "github.com/mvdbosch/stock-portfolio-tracker/internal/api/middleware"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/broadcast"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/config"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	settingsService *service.SettingsService,
	pricingService *service.PricingService,
	portfolioService *service.PortfolioService,
	historyService *service.HistoryService,
	reviewService *service.ReviewService,
	hub *broadcast.Hub,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService, settingsService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Post("/gemini-key", systemHandler.SetGeminiKey)
		})

		r.Route("/stock", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(pricingService)
			r.Get("/quote", marketHandler.Quote)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService, historyService)
			reviewHandler := handlers.NewReviewHandler(reviewService)
			r.Get("/", portfolioHandler.Portfolio)
			r.Post("/buy", portfolioHandler.Buy)
			r.Post("/sell", portfolioHandler.Sell)
			r.Get("/history", portfolioHandler.History)
			r.Post("/review", reviewHandler.Review)
			r.Get("/ws", hub.ServeWS)
		})
	})

	return r
}
