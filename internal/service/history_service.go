package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
)

// DefaultHistoryDays is the query window used when the caller does not
// specify one.
const DefaultHistoryDays = 30

// HistoryService implements the valuation history recorder: an
// append-only time series of total portfolio value.
type HistoryService struct {
	historyRepo *repository.HistoryRepository
}

// NewHistoryService creates a new HistoryService with the provided repository.
func NewHistoryService(historyRepo *repository.HistoryRepository) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

// Record appends a valuation sample. Always an append: repeated calls with
// the same timestamp produce multiple samples, and no deduplication is
// performed.
func (s *HistoryService) Record(ctx context.Context, totalValue float64, at time.Time) error {
	sample := &model.ValuationSample{
		ID:         uuid.New().String(),
		Date:       at,
		TotalValue: totalValue,
	}

	if err := s.historyRepo.InsertSample(ctx, sample); err != nil {
		return fmt.Errorf("failed to record valuation sample: %w", err)
	}

	return nil
}

// Range returns the valuation samples for a window of the given number of
// days ending now, ascending by timestamp. Days of zero or less selects
// the default window. An empty store or an empty window yields an empty
// slice, not an error.
func (s *HistoryService) Range(days int) ([]model.ValuationSample, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	samples, err := s.historyRepo.GetSamplesBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetHistory, err)
	}

	return samples, nil
}

// RangeBetween returns all samples with start <= timestamp <= end,
// ascending. Exposed for callers that need an explicit window rather than
// a trailing number of days.
func (s *HistoryService) RangeBetween(start, end time.Time) ([]model.ValuationSample, error) {
	samples, err := s.historyRepo.GetSamplesBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetHistory, err)
	}

	return samples, nil
}
