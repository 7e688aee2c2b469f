package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
)

// CoinRecord is one listing row in a single quote currency.
type CoinRecord struct {
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	Price        decimal.Decimal `json:"price"`
	PctChange1h  decimal.Decimal `json:"pct_change_1h"`
	PctChange24h decimal.Decimal `json:"pct_change_24h"`
	PctChange7d  decimal.Decimal `json:"pct_change_7d"`
	MarketCap    decimal.Decimal `json:"market_cap"`
	Volume24h    decimal.Decimal `json:"volume_24h"`
	Supply       decimal.Decimal `json:"supply"`
}

// QuoteCurrency is the denomination of price-like columns.
type QuoteCurrency string

const (
	QuoteUSD QuoteCurrency = "USD"
	QuoteBTC QuoteCurrency = "BTC"
	QuoteETH QuoteCurrency = "ETH"
)

func SupportedQuoteCurrencies() []QuoteCurrency {
	return []QuoteCurrency{QuoteUSD, QuoteBTC, QuoteETH}
}

func ParseQuoteCurrency(s string) (QuoteCurrency, error) {
	c := QuoteCurrency(strings.ToUpper(strings.TrimSpace(s)))
	for _, supported := range SupportedQuoteCurrencies() {
		if c == supported {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, s)
}

// SortKey names a numeric CoinRecord column.
type SortKey string

const (
	SortPrice        SortKey = "price"
	SortPctChange1h  SortKey = "pct_change_1h"
	SortPctChange24h SortKey = "pct_change_24h"
	SortPctChange7d  SortKey = "pct_change_7d"
	SortMarketCap    SortKey = "market_cap"
	SortVolume24h    SortKey = "volume_24h"
	SortSupply       SortKey = "supply"
)

// dashboard column labels accepted as aliases
var sortKeyLabels = map[string]SortKey{
	"price":        SortPrice,
	"1h%":          SortPctChange1h,
	"24h%":         SortPctChange24h,
	"7d%":          SortPctChange7d,
	"market cap":   SortMarketCap,
	"volume (24h)": SortVolume24h,
	"supply":       SortSupply,
}

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	if k.Valid() {
		return k, nil
	}
	if alias, ok := sortKeyLabels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSortKey, s)
}

func (k SortKey) Valid() bool {
	switch k {
	case SortPrice, SortPctChange1h, SortPctChange24h, SortPctChange7d,
		SortMarketCap, SortVolume24h, SortSupply:
		return true
	}
	return false
}

// IsPercent reports whether the column holds a signed fraction.
func (k SortKey) IsPercent() bool {
	return k == SortPctChange1h || k == SortPctChange24h || k == SortPctChange7d
}

// Value extracts the column named by k. Callers must check Valid first.
func (k SortKey) Value(c CoinRecord) decimal.Decimal {
	switch k {
	case SortPrice:
		return c.Price
	case SortPctChange1h:
		return c.PctChange1h
	case SortPctChange24h:
		return c.PctChange24h
	case SortPctChange7d:
		return c.PctChange7d
	case SortMarketCap:
		return c.MarketCap
	case SortVolume24h:
		return c.Volume24h
	case SortSupply:
		return c.Supply
	}
	return decimal.Zero
}

type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
)

// PriceRow is a CoinRecord placed in a display table.
type PriceRow struct {
	Rank int `json:"rank"`
	CoinRecord
	Color Color `json:"color"`
}

// PriceTable is the sorted, sliced, color-coded output for one request.
type PriceTable struct {
	Currency QuoteCurrency   `json:"currency"`
	SortKey  SortKey         `json:"sort_key"`
	Baseline decimal.Decimal `json:"baseline"`
	Rows     []PriceRow      `json:"rows"`
}
