package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/request"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/response"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolio and history services.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	historyService   *service.HistoryService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependencies.
func NewPortfolioHandler(portfolioService *service.PortfolioService, historyService *service.HistoryService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		historyService:   historyService,
	}
}

// Buy handles POST requests to purchase a stock. A successful buy mutates
// the ledger and triggers a best-effort portfolio broadcast to websocket
// subscribers.
//
// Endpoint: POST /api/portfolio/buy
// Request Body: TradeRequest (ticker, quantity)
// Response: 200 OK with confirmation message and purchase timestamp
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quantity, _ := req.Quantity.Int64()

	position, err := h.portfolioService.Buy(r.Context(), req.Ticker, quantity)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidQuantity) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidQuantity.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuyStock.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Stock purchased successfully",
		"time":    position.DateBought.UTC().Format(timeFormat),
	})
}

// Sell handles POST requests to sell a stock. A successful sell mutates
// the ledger, appends one closed-position entry, and triggers a
// best-effort portfolio broadcast.
//
// Endpoint: POST /api/portfolio/sell
// Request Body: TradeRequest (ticker, quantity)
// Response: 200 OK with confirmation message and sale timestamp
// Error: 400 Bad Request if validation fails or held quantity is insufficient
// Error: 404 Not Found if no position is held for the ticker
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quantity, _ := req.Quantity.Int64()

	closed, err := h.portfolioService.Sell(r.Context(), req.Ticker, quantity)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPositionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInsufficientQuantity):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInsufficientQuantity.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidQuantity):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidQuantity.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSellStock.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Stock sold successfully",
		"time":    closed.DateSold.UTC().Format(timeFormat),
	})
}

// Portfolio handles GET requests for the current portfolio view. This is
// an explicit two-step operation: compute the valuation, then record the
// total into the history time series. The append is part of the contract
// of viewing the portfolio, not a hidden side effect.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with PortfolioView (bought stocks, sold stocks, total value)
// Error: 500 Internal Server Error if valuation or the history append fails
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioService.Valuation(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolio.Error(), err.Error())
		return
	}

	if err := h.historyService.Record(r.Context(), view.TotalValue, time.Now()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// History handles GET requests for the portfolio value time series.
//
// Endpoint: GET /api/portfolio/history?days=30
// Response: 200 OK with ascending array of {date, value}; empty array when
// no samples fall in the window. A missing or unparsable days parameter
// selects the default window of 30 days.
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		days = service.DefaultHistoryDays
	}

	samples, err := h.historyService.Range(days)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, samples)
}
