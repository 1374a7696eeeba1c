package handlers

import (
	"errors"
	"net/http"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/response"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/validation"
)

// MarketHandler handles HTTP requests for market data endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the pricing service.
type MarketHandler struct {
	pricingService *service.PricingService
}

// NewMarketHandler creates a new MarketHandler with the provided service dependency.
func NewMarketHandler(pricingService *service.PricingService) *MarketHandler {
	return &MarketHandler{
		pricingService: pricingService,
	}
}

// Quote handles GET requests for a full stock quote. This is the
// always-refresh path: it consults the provider regardless of cache state
// and replaces the cached record unconditionally.
//
// Endpoint: GET /api/stock/quote?ticker=AAPL
// Response: 200 OK with Quote (currentPrice, previousClose, marketCap, dailyChange)
// Error: 400 Bad Request if the ticker is missing or malformed
// Error: 404 Not Found if the provider knows no such symbol
// Error: 502 Bad Gateway if the provider call fails
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")

	if err := validation.ValidateTicker(ticker); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
		return
	}

	quote, err := h.pricingService.Quote(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToFetchQuote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}
