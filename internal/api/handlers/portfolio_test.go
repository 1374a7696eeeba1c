package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/handlers"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/testutil"
)

// TestPortfolioHandler_Buy tests the POST /api/portfolio/buy endpoint.
//
// WHY: Buy is the entry point for all holdings. The frontend depends on the
// confirmation payload and on validation failures being reported as 400s
// rather than corrupting the ledger.
func TestPortfolioHandler_Buy(t *testing.T) {
	t.Run("POST /api/portfolio/buy purchases a stock", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient().WithPrice("AAPL", 150.00)
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		body := `{"ticker": "AAPL", "quantity": 10}`
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/buy", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.Buy(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]string
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response["message"] != "Stock purchased successfully" {
			t.Errorf("Expected purchase confirmation, got '%s'", response["message"])
		}
		if response["time"] == "" {
			t.Error("Expected a purchase timestamp in the response")
		}

		testutil.AssertRowCount(t, db, "position", 1)
	})

	t.Run("POST /api/portfolio/buy returns 400 for invalid quantity", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		body := `{"ticker": "AAPL", "quantity": 2.5}`
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/buy", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.Buy(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
		testutil.AssertRowCount(t, db, "position", 0)
	})

	t.Run("POST /api/portfolio/buy returns 400 for malformed JSON", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/buy", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		// Execute
		handler.Buy(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_Sell tests the POST /api/portfolio/sell endpoint.
//
// WHY: Sell failures carry meaning: 404 means never bought, 400 means
// overselling. The frontend branches on those statuses.
func TestPortfolioHandler_Sell(t *testing.T) {
	t.Run("POST /api/portfolio/sell sells part of a position", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient().WithPrice("AAPL", 150.00)
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		testutil.NewPosition("AAPL").WithQuantity(10).Build(t, db)

		body := `{"ticker": "AAPL", "quantity": 4}`
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/sell", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.Sell(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]string
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response["message"] != "Stock sold successfully" {
			t.Errorf("Expected sale confirmation, got '%s'", response["message"])
		}

		testutil.AssertRowCount(t, db, "closed_position", 1)
	})

	t.Run("POST /api/portfolio/sell returns 404 for a never-bought stock", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		body := `{"ticker": "XYZ", "quantity": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/sell", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.Sell(w, req)

		// Assert
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("POST /api/portfolio/sell returns 400 when overselling", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		testutil.NewPosition("AAPL").WithQuantity(5).Build(t, db)

		body := `{"ticker": "AAPL", "quantity": 6}`
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/sell", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.Sell(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_Portfolio tests the GET /api/portfolio endpoint.
//
// WHY: Viewing the portfolio is also the canonical history trigger: every
// successful view must append exactly one valuation sample. The frontend
// charts depend on that coupling.
func TestPortfolioHandler_Portfolio(t *testing.T) {
	t.Run("GET /api/portfolio returns the valued portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient().WithPrice("AAPL", 150.00)
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		testutil.NewPosition("AAPL").WithQuantity(10).Build(t, db)
		testutil.NewClosedPosition("TSLA").WithQuantity(7).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.Portfolio(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var view model.PortfolioView
		if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if view.TotalValue != 1500.00 {
			t.Errorf("Expected total value 1500.00, got %f", view.TotalValue)
		}
		if len(view.BoughtStocks) != 1 || view.BoughtStocks[0].Ticker != "AAPL" {
			t.Errorf("Expected one AAPL position, got %+v", view.BoughtStocks)
		}
		if len(view.SoldStocks) != 1 || view.SoldStocks[0].Ticker != "TSLA" {
			t.Errorf("Expected one TSLA sale, got %+v", view.SoldStocks)
		}
	})

	t.Run("GET /api/portfolio appends one history sample per view", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		// Execute: two views
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
			w := httptest.NewRecorder()
			handler.Portfolio(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
		}

		// Assert
		testutil.AssertRowCount(t, db, "portfolio_history", 2)
	})
}

// TestPortfolioHandler_History tests the GET /api/portfolio/history endpoint.
//
// WHY: The days parameter is client-controlled and frequently absent or
// junk; anything unparsable falls back to the default window instead of
// failing the request.
func TestPortfolioHandler_History(t *testing.T) {
	t.Run("GET /api/portfolio/history returns samples in the window", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		testutil.NewValuationSample(1500.00).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/history?days=7", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.History(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var samples []model.ValuationSample
		if err := json.NewDecoder(w.Body).Decode(&samples); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(samples) != 1 {
			t.Fatalf("Expected 1 sample, got %d", len(samples))
		}
		if samples[0].TotalValue != 1500.00 {
			t.Errorf("Expected value 1500.00, got %f", samples[0].TotalValue)
		}
	})

	t.Run("GET /api/portfolio/history returns empty array with no samples", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/history", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.History(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if body := strings.TrimSpace(w.Body.String()); body != "[]" {
			t.Errorf("Expected empty JSON array, got %s", body)
		}
	})

	t.Run("GET /api/portfolio/history tolerates a junk days parameter", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketClient()
		portfolioSvc := testutil.NewTestPortfolioService(t, db, market, nil)
		historySvc := testutil.NewTestHistoryService(t, db)
		handler := handlers.NewPortfolioHandler(portfolioSvc, historySvc)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/history?days=banana", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.History(w, req)

		// Assert: falls back to the default window
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for a junk days value, got %d", w.Code)
		}
	})
}
