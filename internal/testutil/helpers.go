package testutil

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/service"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/yahoo"
)

// TestProviderTimeout bounds provider calls in tests. Mock clients never
// block, so the value only matters for context plumbing.
const TestProviderTimeout = 2 * time.Second

// NewTestPricingService creates a PricingService backed by the given mock
// market client.
func NewTestPricingService(t *testing.T, db *sql.DB, market yahoo.Client) *service.PricingService {
	t.Helper()

	priceRepo := repository.NewPriceRepository(db)

	return service.NewPricingService(priceRepo, market, TestProviderTimeout)
}

// NewTestPortfolioService creates a PortfolioService backed by the given
// mock market client and broadcaster. A nil broadcaster disables
// publishing, matching a server with no connected subscribers.
func NewTestPortfolioService(t *testing.T, db *sql.DB, market yahoo.Client, broadcaster service.Publisher) *service.PortfolioService {
	t.Helper()

	positionRepo := repository.NewPositionRepository(db)
	pricingService := NewTestPricingService(t, db, market)

	return service.NewPortfolioService(
		db,
		positionRepo,
		pricingService,
		broadcaster,
	)
}

// NewTestHistoryService creates a HistoryService for tests.
func NewTestHistoryService(t *testing.T, db *sql.DB) *service.HistoryService {
	t.Helper()

	historyRepo := repository.NewHistoryRepository(db)

	return service.NewHistoryService(historyRepo)
}

// NewTestSettingsService creates a SettingsService without encryption.
func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	settingsRepo := repository.NewSettingsRepository(db)

	settingsService, err := service.NewSettingsService(settingsRepo, "")
	if err != nil {
		t.Fatalf("Failed to create settings service: %v", err)
	}

	return settingsService
}

// CapturingPublisher records every published snapshot for assertions.
// Safe for concurrent use.
type CapturingPublisher struct {
	mu        sync.Mutex
	Snapshots []model.PortfolioSnapshot
}

// NewCapturingPublisher creates an empty CapturingPublisher.
func NewCapturingPublisher() *CapturingPublisher {
	return &CapturingPublisher{}
}

// Publish records the snapshot.
func (p *CapturingPublisher) Publish(snapshot model.PortfolioSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Snapshots = append(p.Snapshots, snapshot)
}

// Count returns the number of snapshots published so far.
func (p *CapturingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Snapshots)
}

// Last returns the most recently published snapshot.
func (p *CapturingPublisher) Last(t *testing.T) model.PortfolioSnapshot {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Snapshots) == 0 {
		t.Fatal("No snapshots have been published")
	}
	return p.Snapshots[len(p.Snapshots)-1]
}

// MakeID generates a UUID string for use in tests.
func MakeID() string {
	return uuid.New().String()
}
