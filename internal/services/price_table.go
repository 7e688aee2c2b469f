package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

// BuildPriceTable sorts records descending by key (stable), keeps the first
// limit rows, ranks them from 1 and colors each row against a baseline. The
// baseline is the mean of the selected rows for price and zero for every other
// column, so percentage columns read as gain versus loss.
func BuildPriceTable(records []models.CoinRecord, key models.SortKey, limit int) ([]models.PriceRow, decimal.Decimal, error) {
	if !key.Valid() {
		return nil, decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidSortKey, key)
	}
	if limit < 0 {
		return nil, decimal.Zero, &apperrors.ErrValidation{Field: "limit", Message: "must not be negative"}
	}

	sorted := make([]models.CoinRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key.Value(sorted[i]).GreaterThan(key.Value(sorted[j]))
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}

	baseline := decimal.Zero
	if key == models.SortPrice && len(sorted) > 0 {
		sum := decimal.Zero
		for _, r := range sorted {
			sum = sum.Add(r.Price)
		}
		baseline = sum.Div(decimal.NewFromInt(int64(len(sorted))))
	}

	rows := make([]models.PriceRow, len(sorted))
	for i, r := range sorted {
		color := models.ColorRed
		if key.Value(r).GreaterThanOrEqual(baseline) {
			color = models.ColorGreen
		}
		rows[i] = models.PriceRow{Rank: i + 1, CoinRecord: r, Color: color}
	}
	return rows, baseline, nil
}
