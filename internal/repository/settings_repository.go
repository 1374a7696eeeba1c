package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SettingsRepository provides data access methods for the system_setting
// table. Values are stored as opaque strings; encryption of sensitive
// values is the service layer's concern.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves the stored value for a key.
// Returns sql.ErrNoRows when the key has never been set.
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	query := `SELECT value FROM system_setting WHERE "key" = ?`

	var value string
	err := r.db.QueryRow(query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("failed to scan system_setting table results: %w", err)
	}

	return value, nil
}

// UpsertSetting creates or replaces the value for a key and bumps updated_at.
func (r *SettingsRepository) UpsertSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO system_setting (id, "key", value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		key,
		value,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert system setting: %w", err)
	}

	return nil
}
