package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

const (
	DefaultListingsURL = "https://coinmarketcap.com/"
	browserUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var hundred = decimal.NewFromInt(100)

// CoinMarketCapListingsSource scrapes the listing table embedded in the
// CoinMarketCap landing page. The page carries its initial state as JSON in the
// __NEXT_DATA__ script; the listing inside it is a header row (keysArr)
// followed by positional value rows.
type CoinMarketCapListingsSource struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewCoinMarketCapListingsSource(url string) ListingsSource {
	if url == "" {
		url = DefaultListingsURL
	}
	return &CoinMarketCapListingsSource{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
	}
}

func (s *CoinMarketCapListingsSource) FetchListings(ctx context.Context, currency models.QuoteCurrency) ([]models.CoinRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", apperrors.ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: listings page status %d", apperrors.ErrSourceUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %w", apperrors.ErrSourceUnavailable, err)
	}
	script := doc.Find(`script#__NEXT_DATA__`).First().Text()
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("%w: page has no __NEXT_DATA__ script", apperrors.ErrSourceUnavailable)
	}

	records, err := parseListings([]byte(script), currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}
	return records, nil
}

// parseListings decodes the __NEXT_DATA__ payload into records quoted in currency.
func parseListings(payload []byte, currency models.QuoteCurrency) ([]models.CoinRecord, error) {
	var next struct {
		Props struct {
			InitialState json.RawMessage `json:"initialState"`
		} `json:"props"`
	}
	if err := json.Unmarshal(payload, &next); err != nil {
		return nil, fmt.Errorf("failed to decode page data: %w", err)
	}

	// initialState is sometimes embedded as a JSON string
	state := bytes.TrimSpace(next.Props.InitialState)
	if len(state) > 0 && state[0] == '"' {
		var s string
		if err := json.Unmarshal(state, &s); err != nil {
			return nil, fmt.Errorf("failed to decode initial state: %w", err)
		}
		state = []byte(s)
	}

	var st struct {
		Cryptocurrency struct {
			ListingLatest struct {
				Data []json.RawMessage `json:"data"`
			} `json:"listingLatest"`
		} `json:"cryptocurrency"`
	}
	if err := json.Unmarshal(state, &st); err != nil {
		return nil, fmt.Errorf("failed to decode initial state: %w", err)
	}
	data := st.Cryptocurrency.ListingLatest.Data
	if len(data) == 0 {
		return nil, fmt.Errorf("listing data missing")
	}

	var head struct {
		KeysArr []string `json:"keysArr"`
	}
	if err := json.Unmarshal(data[0], &head); err != nil || len(head.KeysArr) == 0 {
		return nil, fmt.Errorf("listing header missing")
	}
	index := make(map[string]int, len(head.KeysArr))
	for i, k := range head.KeysArr {
		index[k] = i
	}

	quote := "quote." + string(currency) + "."
	cols := listingColumns{
		name:      "slug",
		symbol:    "symbol",
		price:     quote + "price",
		pct1h:     quote + "percentChange1h",
		pct24h:    quote + "percentChange24h",
		pct7d:     quote + "percentChange7d",
		marketCap: quote + "marketCap",
		volume24h: quote + "volume24h",
		supply:    "selfReportedCirculatingSupply",
	}
	for _, c := range cols.all() {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("listing column %q missing", c)
		}
	}

	records := make([]models.CoinRecord, 0, len(data)-1)
	seen := make(map[string]bool, len(data)-1)
	for i, raw := range data[1:] {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var row []interface{}
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("listing row %d: %w", i+1, err)
		}

		v := func(col string) interface{} {
			if j := index[col]; j < len(row) {
				return row[j]
			}
			return nil
		}
		symbol := toString(v(cols.symbol))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true

		records = append(records, models.CoinRecord{
			Name:         toString(v(cols.name)),
			Symbol:       symbol,
			Price:        toDecimal(v(cols.price)),
			PctChange1h:  toDecimal(v(cols.pct1h)).Div(hundred),
			PctChange24h: toDecimal(v(cols.pct24h)).Div(hundred),
			PctChange7d:  toDecimal(v(cols.pct7d)).Div(hundred),
			MarketCap:    toDecimal(v(cols.marketCap)),
			Volume24h:    toDecimal(v(cols.volume24h)),
			Supply:       toDecimal(v(cols.supply)),
		})
	}
	return records, nil
}

type listingColumns struct {
	name, symbol, price, pct1h, pct24h, pct7d, marketCap, volume24h, supply string
}

func (c listingColumns) all() []string {
	return []string{c.name, c.symbol, c.price, c.pct1h, c.pct24h, c.pct7d, c.marketCap, c.volume24h, c.supply}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// toDecimal reads a listing cell; null or non-numeric cells read as zero.
func toDecimal(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(t)
	case string:
		if d, err := decimal.NewFromString(t); err == nil {
			return d
		}
	}
	return decimal.Zero
}
