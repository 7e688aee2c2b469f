package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

func coin(symbol string, price, pct1h float64) models.CoinRecord {
	return models.CoinRecord{
		Name:        symbol,
		Symbol:      symbol,
		Price:       decimal.NewFromFloat(price),
		PctChange1h: decimal.NewFromFloat(pct1h),
	}
}

func symbols(rows []models.PriceRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func TestBuildPriceTable_PercentColumnColorsAgainstZero(t *testing.T) {
	records := []models.CoinRecord{coin("ETH", 3000, -0.01), coin("BTC", 50000, 0.02)}

	rows, baseline, err := BuildPriceTable(records, models.SortPctChange1h, 2)
	require.NoError(t, err)

	assert.True(t, baseline.IsZero())
	assert.Equal(t, []string{"BTC", "ETH"}, symbols(rows))
	assert.Equal(t, models.ColorGreen, rows[0].Color)
	assert.Equal(t, models.ColorRed, rows[1].Color)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestBuildPriceTable_PriceColorsAgainstMeanOfSelection(t *testing.T) {
	records := []models.CoinRecord{
		coin("A", 10, 0), coin("B", 40, 0), coin("C", 30, 0), coin("D", 1, 0),
	}

	rows, baseline, err := BuildPriceTable(records, models.SortPrice, 3)
	require.NoError(t, err)

	// mean of 40, 30, 10; D is outside the selection
	assert.True(t, baseline.Equal(decimal.NewFromInt(80).Div(decimal.NewFromInt(3))), "baseline %s", baseline)
	assert.Equal(t, []string{"B", "C", "A"}, symbols(rows))
	assert.Equal(t, []models.Color{models.ColorGreen, models.ColorGreen, models.ColorRed},
		[]models.Color{rows[0].Color, rows[1].Color, rows[2].Color})
}

func TestBuildPriceTable_ValueEqualToBaselineIsGreen(t *testing.T) {
	records := []models.CoinRecord{coin("A", 5, 0), coin("B", 5, 0)}

	rows, _, err := BuildPriceTable(records, models.SortPrice, 10)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, models.ColorGreen, r.Color, r.Symbol)
	}

	rows, _, err = BuildPriceTable(records, models.SortPctChange1h, 10)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, models.ColorGreen, r.Color, r.Symbol)
	}
}

func TestBuildPriceTable_SortIsStableAndDescending(t *testing.T) {
	records := []models.CoinRecord{
		coin("X", 1, 0.05), coin("Y", 2, 0.10), coin("Z", 3, 0.05), coin("W", 4, -0.20),
	}

	rows, _, err := BuildPriceTable(records, models.SortPctChange1h, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "X", "Z", "W"}, symbols(rows))
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].PctChange1h.GreaterThan(rows[i-1].PctChange1h))
	}
	// input is left untouched
	assert.Equal(t, "X", records[0].Symbol)
}

func TestBuildPriceTable_Limits(t *testing.T) {
	records := []models.CoinRecord{coin("A", 1, 0), coin("B", 2, 0)}

	rows, baseline, err := BuildPriceTable(records, models.SortPrice, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, baseline.IsZero())

	rows, _, err = BuildPriceTable(records, models.SortPrice, 50)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, _, err = BuildPriceTable(nil, models.SortPrice, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBuildPriceTable_RejectsBadInput(t *testing.T) {
	_, _, err := BuildPriceTable(nil, models.SortKey("rank"), 5)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSortKey))

	_, _, err = BuildPriceTable(nil, models.SortPrice, -1)
	var ve *apperrors.ErrValidation
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "limit", ve.Field)
}
