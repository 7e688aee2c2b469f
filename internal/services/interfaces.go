package services

import (
	"context"

	"github.com/tropicaldog17/dashboards/internal/models"
)

// ListingsSource fetches the full listing snapshot in one quote currency.
// Failures are reported as ErrSourceUnavailable.
type ListingsSource interface {
	FetchListings(ctx context.Context, currency models.QuoteCurrency) ([]models.CoinRecord, error)
}

// CryptoService defines the price table operations behind the crypto dashboard
type CryptoService interface {
	Listings(ctx context.Context, currency, sortKey string, limit int) (*models.PriceTable, error)
}

// SelfTestService defines the operations behind the self-test tracker
type SelfTestService interface {
	Roster(ctx context.Context) (*models.Roster, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Weeks() *models.WeekTable
	Log(ctx context.Context) ([]models.LogView, error)
	Attendance(ctx context.Context, year, week int, opts UnrollOptions) ([]models.AttendanceRow, error)
	Submit(ctx context.Context, user *models.User, sub *models.Submission) (models.SubmitOutcome, error)
}

// TokenService issues and verifies session tokens for logged-in members
type TokenService interface {
	Issue(user *models.User) (string, error)
	Parse(token string) (*models.User, error)
}
