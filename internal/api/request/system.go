package request

// SetGeminiKeyRequest is the body for storing the review generator API key.
type SetGeminiKeyRequest struct {
	APIKey string `json:"api_key"`
}
