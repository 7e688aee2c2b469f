package repositories

import (
	"context"

	"github.com/tropicaldog17/dashboards/internal/models"
)

// LedgerRepository defines the data operations on the self-test ledger and
// its member reference table. Failures are reported as ErrStoreUnavailable;
// an empty ledger is an empty slice.
type LedgerRepository interface {
	// ReadLog returns all entries sorted by year desc, week desc, timestamp asc.
	ReadLog(ctx context.Context) ([]*models.LogEntry, error)
	ReadRoster(ctx context.Context) (*models.Roster, error)
	AppendLog(ctx context.Context, entry *models.LogEntry) error
}

// ConditionalAppender is implemented by stores that can insert an entry only
// when its LogKey is absent, in one atomic step. The bool reports whether the
// entry was written.
type ConditionalAppender interface {
	AppendIfAbsent(ctx context.Context, entry *models.LogEntry) (bool, error)
}

// RosterWriter is implemented by stores whose member table is managed by
// this service rather than edited by hand.
type RosterWriter interface {
	PutMembers(ctx context.Context, users []models.User) error
}
