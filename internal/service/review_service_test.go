package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/testutil"
)

// mockGenerator records the API key and prompt it was asked to render.
type mockGenerator struct {
	apiKey string
	prompt string
	reply  string
	err    error
}

func (g *mockGenerator) GenerateContent(_ context.Context, apiKey, prompt string) (string, error) {
	g.apiKey = apiKey
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// TestReviewService_GenerateReview tests the narrative review flow.
//
// WHY: The review path wires together key resolution and the generator
// call. Key precedence matters: a key stored through the settings endpoint
// must win over the environment fallback, and with neither present the
// caller needs a distinguishable not-configured error.
func TestReviewService_GenerateReview(t *testing.T) {
	t.Run("passes the rendered prompt to the generator", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settings := testutil.NewTestSettingsService(t, db)
		generator := &mockGenerator{reply: "Solid portfolio."}
		svc := service.NewReviewService(settings, generator, "env-key")

		summary := model.ReviewSummary{
			BoughtStocks: []model.PositionValue{
				{Ticker: "AAPL", Quantity: 10, DateBought: "2025-06-01 12:00:00"},
			},
		}

		// Execute
		review, err := svc.GenerateReview(context.Background(), summary)

		// Assert
		if err != nil {
			t.Fatalf("GenerateReview() returned unexpected error: %v", err)
		}
		if review != "Solid portfolio." {
			t.Errorf("Expected the generator's reply, got '%s'", review)
		}
		if !strings.Contains(generator.prompt, "AAPL: 10 (Bought on 2025-06-01 12:00:00)") {
			t.Errorf("Expected the prompt to list the held position, got:\n%s", generator.prompt)
		}
	})

	t.Run("prefers the stored key over the environment fallback", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settings := testutil.NewTestSettingsService(t, db)
		if err := settings.SetGeminiAPIKey(context.Background(), "stored-key"); err != nil {
			t.Fatalf("SetGeminiAPIKey() returned unexpected error: %v", err)
		}

		generator := &mockGenerator{reply: "ok"}
		svc := service.NewReviewService(settings, generator, "env-key")

		// Execute
		if _, err := svc.GenerateReview(context.Background(), model.ReviewSummary{}); err != nil {
			t.Fatalf("GenerateReview() returned unexpected error: %v", err)
		}

		// Assert
		if generator.apiKey != "stored-key" {
			t.Errorf("Expected the stored key to be used, got '%s'", generator.apiKey)
		}
	})

	t.Run("falls back to the environment key", func(t *testing.T) {
		// Setup: nothing stored
		db := testutil.SetupTestDB(t)
		settings := testutil.NewTestSettingsService(t, db)
		generator := &mockGenerator{reply: "ok"}
		svc := service.NewReviewService(settings, generator, "env-key")

		// Execute
		if _, err := svc.GenerateReview(context.Background(), model.ReviewSummary{}); err != nil {
			t.Fatalf("GenerateReview() returned unexpected error: %v", err)
		}

		// Assert
		if generator.apiKey != "env-key" {
			t.Errorf("Expected the environment key to be used, got '%s'", generator.apiKey)
		}
	})

	t.Run("fails with ErrReviewNotConfigured when no key is available", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settings := testutil.NewTestSettingsService(t, db)
		generator := &mockGenerator{reply: "ok"}
		svc := service.NewReviewService(settings, generator, "")

		// Execute
		_, err := svc.GenerateReview(context.Background(), model.ReviewSummary{})

		// Assert
		if !errors.Is(err, apperrors.ErrReviewNotConfigured) {
			t.Errorf("Expected ErrReviewNotConfigured, got %v", err)
		}
		if generator.prompt != "" {
			t.Error("Expected the generator not to be called without a key")
		}
	})

	t.Run("wraps generator failures", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settings := testutil.NewTestSettingsService(t, db)
		generator := &mockGenerator{err: errors.New("quota exceeded")}
		svc := service.NewReviewService(settings, generator, "env-key")

		// Execute
		_, err := svc.GenerateReview(context.Background(), model.ReviewSummary{})

		// Assert
		if !errors.Is(err, apperrors.ErrFailedToGenerateReview) {
			t.Errorf("Expected ErrFailedToGenerateReview, got %v", err)
		}
	})
}

// TestBuildReviewPrompt tests the prompt rendering.
//
// WHY: The prompt layout is part of the external contract with the
// generator; held and sold positions must each appear in their own section
// with their dates.
func TestBuildReviewPrompt(t *testing.T) {
	t.Run("renders held and sold sections", func(t *testing.T) {
		summary := model.ReviewSummary{
			BoughtStocks: []model.PositionValue{
				{Ticker: "AAPL", Quantity: 10, DateBought: "2025-06-01 12:00:00"},
				{Ticker: "MSFT", Quantity: 5, DateBought: "2025-06-02 09:30:00"},
			},
			SoldStocks: []model.ClosedPositionView{
				{Ticker: "TSLA", Quantity: 7, DateSold: "2025-06-03 15:45:00"},
			},
		}

		prompt := service.BuildReviewPrompt(summary)

		for _, want := range []string{
			"Bought Stocks:",
			"AAPL: 10 (Bought on 2025-06-01 12:00:00)",
			"MSFT: 5 (Bought on 2025-06-02 09:30:00)",
			"Sold Stocks:",
			"TSLA: 7 (Sold on 2025-06-03 15:45:00)",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("Expected prompt to contain %q, got:\n%s", want, prompt)
			}
		}
	})

	t.Run("renders empty sections for an empty portfolio", func(t *testing.T) {
		prompt := service.BuildReviewPrompt(model.ReviewSummary{})

		if !strings.Contains(prompt, "Bought Stocks:") {
			t.Errorf("Expected the bought section header even when empty, got:\n%s", prompt)
		}
		if !strings.Contains(prompt, "Sold Stocks:") {
			t.Errorf("Expected the sold section header even when empty, got:\n%s", prompt)
		}
	})
}
