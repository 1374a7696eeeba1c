package handlers

import (
	"net/http"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/request"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/response"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/validation"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService   *service.SystemService
	settingsService *service.SettingsService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService, settingsService *service.SettingsService) *SystemHandler {
	return &SystemHandler{
		systemService:   systemService,
		settingsService: settingsService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	// Check database health
	if err := h.systemService.CheckHealth(); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	// System is healthy
	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	respondJSON(w, http.StatusOK, response)
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with the application version
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"app_version": h.systemService.CheckVersion(),
	})
}

// SetGeminiKey handles POST requests to store the review generator API
// key. The key is encrypted at rest when a fernet key is configured.
//
// Endpoint: POST /api/system/gemini-key
// Request Body: SetGeminiKeyRequest (api_key)
// Response: 204 No Content on success
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if storing fails
func (h *SystemHandler) SetGeminiKey(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetGeminiKeyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetGeminiKey(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.settingsService.SetGeminiAPIKey(r.Context(), req.APIKey); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToStoreSetting.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
