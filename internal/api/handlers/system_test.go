package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/handlers"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/testutil"
)

// TestSystemHandler_Health tests the GET /api/system/health endpoint.
//
// WHY: Deployment probes depend on this endpoint accurately reflecting
// database connectivity.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("GET /api/system/health returns healthy with a live database", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(service.NewSystemService(db), testutil.NewTestSettingsService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.Health(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.HealthResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}
		if response.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", response.Database)
		}
	})

	t.Run("GET /api/system/health returns 503 with a closed database", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(service.NewSystemService(db), testutil.NewTestSettingsService(t, db))

		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.Health(w, req)

		// Assert
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected status 503, got %d", w.Code)
		}

		var response handlers.HealthResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Status != "unhealthy" {
			t.Errorf("Expected status 'unhealthy', got '%s'", response.Status)
		}
	})
}

// TestSystemHandler_Version tests the GET /api/system/version endpoint.
func TestSystemHandler_Version(t *testing.T) {
	t.Run("GET /api/system/version returns the application version", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(service.NewSystemService(db), testutil.NewTestSettingsService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		// Execute
		handler.Version(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response map[string]string
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response["app_version"] == "" {
			t.Error("Expected a non-empty app_version")
		}
	})
}

// TestSystemHandler_SetGeminiKey tests the POST /api/system/gemini-key endpoint.
//
// WHY: This endpoint stores the review generator credential; an empty key
// must be rejected before it reaches storage.
func TestSystemHandler_SetGeminiKey(t *testing.T) {
	t.Run("POST /api/system/gemini-key stores the key", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settingsSvc := testutil.NewTestSettingsService(t, db)
		handler := handlers.NewSystemHandler(service.NewSystemService(db), settingsSvc)

		body := `{"api_key": "new-api-key"}`
		req := httptest.NewRequest(http.MethodPost, "/api/system/gemini-key", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.SetGeminiKey(w, req)

		// Assert
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d: %s", w.Code, w.Body.String())
		}

		apiKey, err := settingsSvc.GeminiAPIKey()
		if err != nil {
			t.Fatalf("GeminiAPIKey() returned unexpected error: %v", err)
		}
		if apiKey != "new-api-key" {
			t.Errorf("Expected 'new-api-key', got '%s'", apiKey)
		}
	})

	t.Run("POST /api/system/gemini-key returns 400 for an empty key", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(service.NewSystemService(db), testutil.NewTestSettingsService(t, db))

		body := `{"api_key": "   "}`
		req := httptest.NewRequest(http.MethodPost, "/api/system/gemini-key", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.SetGeminiKey(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
		testutil.AssertRowCount(t, db, "system_setting", 0)
	})
}
