package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/dashboards/internal/models"
)

// CryptoServiceImpl implements CryptoService
type CryptoServiceImpl struct {
	source  ListingsSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewCryptoService creates a new crypto price table service. A zero timeout
// leaves the fetch bounded only by the caller's context.
func NewCryptoService(source ListingsSource, timeout time.Duration, logger *zap.Logger) CryptoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CryptoServiceImpl{source: source, timeout: timeout, logger: logger}
}

// Listings fetches a fresh snapshot in currency and builds the ranked, colored
// table. Currency and sort key are validated before anything is fetched.
func (s *CryptoServiceImpl) Listings(ctx context.Context, currency, sortKey string, limit int) (*models.PriceTable, error) {
	cur, err := models.ParseQuoteCurrency(currency)
	if err != nil {
		return nil, err
	}
	key, err := models.ParseSortKey(sortKey)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	records, err := s.source.FetchListings(ctx, cur)
	if err != nil {
		s.logger.Warn("listings fetch failed", zap.String("currency", string(cur)), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("listings fetched",
		zap.String("currency", string(cur)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(started)))

	rows, baseline, err := BuildPriceTable(records, key, limit)
	if err != nil {
		return nil, err
	}
	return &models.PriceTable{Currency: cur, SortKey: key, Baseline: baseline, Rows: rows}, nil
}
