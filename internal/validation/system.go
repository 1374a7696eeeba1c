package validation

import (
	"strings"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/request"
)

// ValidateSetGeminiKey validates a request to store the review generator
// API key.
func ValidateSetGeminiKey(req request.SetGeminiKeyRequest) error {
	if strings.TrimSpace(req.APIKey) == "" {
		return &Error{Fields: map[string]string{"api_key": "api_key is required"}}
	}
	return nil
}
