package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
)

// SettingGeminiAPIKey is the system_setting key under which the review
// generator's API key is stored.
const SettingGeminiAPIKey = "gemini_api_key"

// SettingsService manages system settings. Sensitive values are fernet
// encrypted at rest when a fernet key is configured; without one, values
// are stored as-is.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	fernetKeys   []*fernet.Key
}

// NewSettingsService creates a new SettingsService. fernetKey is the
// base64 fernet key from configuration; empty disables encryption.
func NewSettingsService(settingsRepo *repository.SettingsRepository, fernetKey string) (*SettingsService, error) {
	s := &SettingsService{settingsRepo: settingsRepo}

	if fernetKey != "" {
		keys, err := fernet.DecodeKeys(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("invalid fernet key: %w", err)
		}
		s.fernetKeys = keys
	}

	return s, nil
}

// SetGeminiAPIKey stores the review generator API key, encrypted at rest
// when a fernet key is configured.
func (s *SettingsService) SetGeminiAPIKey(ctx context.Context, apiKey string) error {
	value := apiKey

	if len(s.fernetKeys) > 0 {
		tok, err := fernet.EncryptAndSign([]byte(apiKey), s.fernetKeys[0])
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrFailedToStoreSetting, err)
		}
		value = string(tok)
	}

	if err := s.settingsRepo.UpsertSetting(ctx, SettingGeminiAPIKey, value); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToStoreSetting, err)
	}

	return nil
}

// GeminiAPIKey returns the stored review generator API key, decrypted when
// encryption is configured. Returns apperrors.ErrSettingNotFound when no
// key has been stored.
func (s *SettingsService) GeminiAPIKey() (string, error) {
	value, err := s.settingsRepo.GetSetting(SettingGeminiAPIKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperrors.ErrSettingNotFound
		}
		return "", err
	}

	if len(s.fernetKeys) > 0 {
		// TTL of zero disables token expiry; the key is valid until replaced.
		msg := fernet.VerifyAndDecrypt([]byte(value), 0, s.fernetKeys)
		if msg == nil {
			return "", fmt.Errorf("failed to decrypt stored setting %s", SettingGeminiAPIKey)
		}
		return string(msg), nil
	}

	return value, nil
}
