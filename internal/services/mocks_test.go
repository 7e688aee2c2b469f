package services

import (
	"context"
	"sync"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

// ---- In-memory fakes used across the services tests ----

type mockListingsSource struct {
	records []models.CoinRecord
	err     error
	calls   []models.QuoteCurrency
}

func (m *mockListingsSource) FetchListings(ctx context.Context, currency models.QuoteCurrency) ([]models.CoinRecord, error) {
	m.calls = append(m.calls, currency)
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// mockLedger is a plain LedgerRepository; it never implements
// ConditionalAppender so the deduplicator takes its read-check-append path.
type mockLedger struct {
	mu          sync.Mutex
	entries     []*models.LogEntry
	users       []models.User
	rosterReads int
	readErr     error
	rosterErr   error
	appendErr   error
}

func (m *mockLedger) ReadLog(ctx context.Context) ([]*models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]*models.LogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *mockLedger) ReadRoster(ctx context.Context) (*models.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosterReads++
	if m.rosterErr != nil {
		return nil, m.rosterErr
	}
	return models.NewRoster(m.users), nil
}

func (m *mockLedger) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLedger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

var errStoreDown = apperrors.ErrStoreUnavailable
