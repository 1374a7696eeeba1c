package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
)

// HistoryRepository provides data access methods for the portfolio_history
// table. Samples are append-only; there is no deduplication or upsert.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the provided database connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertSample appends a valuation sample. Repeated calls with the same
// timestamp produce multiple rows.
func (r *HistoryRepository) InsertSample(ctx context.Context, sample *model.ValuationSample) error {
	query := `
		INSERT INTO portfolio_history (id, date, total_value)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sample.ID,
		sample.Date.UTC().Format(time.RFC3339),
		sample.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio history: %w", err)
	}

	return nil
}

// GetSamplesBetween retrieves all valuation samples with start <= date <= end,
// ascending by date. An empty range yields an empty slice, not an error.
func (r *HistoryRepository) GetSamplesBetween(start, end time.Time) ([]model.ValuationSample, error) {
	query := `
		SELECT id, date, total_value
		FROM portfolio_history
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_history table: %w", err)
	}
	defer rows.Close()

	samples := []model.ValuationSample{}

	for rows.Next() {
		var dateStr string
		var s model.ValuationSample

		err := rows.Scan(&s.ID, &dateStr, &s.TotalValue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_history table results: %w", err)
		}

		s.Date, err = ParseTime(dateStr)
		if err != nil || s.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		samples = append(samples, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_history table: %w", err)
	}

	return samples, nil
}
