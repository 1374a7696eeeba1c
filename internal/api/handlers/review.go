package handlers

import (
	"errors"
	"net/http"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/request"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/response"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
)

// ReviewHandler handles HTTP requests for the narrative portfolio review.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler with the provided service dependency.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Review handles POST requests to generate free-text commentary on a
// portfolio summary. The summary comes from the client (mirroring the
// portfolio view payload) so a review can be requested for exactly the
// state the client is displaying.
//
// Endpoint: POST /api/portfolio/review
// Request Body: ReviewRequest (portfolio_data with bought and sold stocks)
// Response: 200 OK with the generated review text
// Error: 400 Bad Request if the request body is invalid
// Error: 502 Bad Gateway if the generator call fails
// Error: 503 Service Unavailable if no generator API key is configured
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ReviewRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	summary := model.ReviewSummary{}
	for _, stock := range req.PortfolioData.BoughtStocks {
		summary.BoughtStocks = append(summary.BoughtStocks, model.PositionValue{
			Ticker:     stock.Ticker,
			Quantity:   stock.Quantity,
			DateBought: stock.DateBought,
		})
	}
	for _, stock := range req.PortfolioData.SoldStocks {
		summary.SoldStocks = append(summary.SoldStocks, model.ClosedPositionView{
			Ticker:   stock.Ticker,
			Quantity: stock.Quantity,
			DateSold: stock.DateSold,
		})
	}

	review, err := h.reviewService.GenerateReview(r.Context(), summary)
	if err != nil {
		if errors.Is(err, apperrors.ErrReviewNotConfigured) {
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrReviewNotConfigured.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToGenerateReview.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, model.Review{Review: review})
}
