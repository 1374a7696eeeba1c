package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/gemini"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
)

// ReviewService turns a structured portfolio summary into free-text
// commentary via the narrative generator. The generator is an external
// collaborator; its failures surface to the caller but never touch core
// portfolio state.
type ReviewService struct {
	settings  *SettingsService
	generator gemini.Generator

	// fallbackKey is the API key from the environment, used when no key
	// has been stored through the settings endpoint.
	fallbackKey string
}

// NewReviewService creates a new ReviewService with the provided settings
// service, generator and environment fallback API key.
func NewReviewService(settings *SettingsService, generator gemini.Generator, fallbackKey string) *ReviewService {
	return &ReviewService{
		settings:    settings,
		generator:   generator,
		fallbackKey: fallbackKey,
	}
}

// GenerateReview renders the portfolio summary into a review prompt and
// asks the generator for commentary. Returns ErrReviewNotConfigured when
// no API key is available from either the settings store or the
// environment.
func (s *ReviewService) GenerateReview(ctx context.Context, summary model.ReviewSummary) (string, error) {
	apiKey, err := s.apiKey()
	if err != nil {
		return "", err
	}

	review, err := s.generator.GenerateContent(ctx, apiKey, BuildReviewPrompt(summary))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToGenerateReview, err)
	}

	return review, nil
}

func (s *ReviewService) apiKey() (string, error) {
	apiKey, err := s.settings.GeminiAPIKey()
	if err == nil && apiKey != "" {
		return apiKey, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToGenerateReview, err)
	}

	if s.fallbackKey != "" {
		return s.fallbackKey, nil
	}

	return "", apperrors.ErrReviewNotConfigured
}

// BuildReviewPrompt renders the structured summary into the prompt sent to
// the generator: the held positions with purchase dates, then the sold
// positions with sale dates.
func BuildReviewPrompt(summary model.ReviewSummary) string {
	var bought strings.Builder
	bought.WriteString("Bought Stocks:")
	for _, stock := range summary.BoughtStocks {
		bought.WriteString(fmt.Sprintf("\n%s: %d (Bought on %s)", stock.Ticker, stock.Quantity, stock.DateBought))
	}

	var sold strings.Builder
	sold.WriteString("Sold Stocks:")
	for _, stock := range summary.SoldStocks {
		sold.WriteString(fmt.Sprintf("\n%s: %d (Sold on %s)", stock.Ticker, stock.Quantity, stock.DateSold))
	}

	return fmt.Sprintf(
		"Please review this purchased stock portfolio. These stocks are currently held and have not been sold yet.\n\n%s\n\nAnd please review these stocks that have been sold.\n\n%s",
		bought.String(),
		sold.String(),
	)
}
