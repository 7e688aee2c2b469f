package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
	"github.com/tropicaldog17/dashboards/internal/services"
)

const defaultListingsLimit = 50

type CryptoHandler struct {
	service      services.CryptoService
	defaultLimit int
	logger       *zap.Logger
}

func NewCryptoHandler(service services.CryptoService, defaultLimit int, logger *zap.Logger) *CryptoHandler {
	if defaultLimit <= 0 {
		defaultLimit = defaultListingsLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CryptoHandler{service: service, defaultLimit: defaultLimit, logger: logger}
}

// HandleListings handles GET /api/crypto/listings?currency=USD&sort=volume_24h&limit=50
// @Summary Get crypto price table
// @Description Fetch a fresh listing snapshot, sort it descending by one column and color each row
// @Tags crypto
// @Produce json
// @Param currency query string false "Quote currency: USD, BTC or ETH (default USD)"
// @Param sort query string false "Sort column, e.g. price, pct_change_1h or \"24h%\" (default volume_24h)"
// @Param limit query int false "Number of rows (default 50)"
// @Success 200 {object} models.PriceTable
// @Failure 400 {object} errorResponse
// @Failure 503 {object} sourceErrorResponse
// @Router /crypto/listings [get]
func (h *CryptoHandler) HandleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	currency := q.Get("currency")
	if currency == "" {
		currency = string(models.QuoteUSD)
	}
	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = string(models.SortVolume24h)
	}
	limit := h.defaultLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, h.logger, &apperrors.ErrValidation{Field: "limit", Message: "must be an integer"})
			return
		}
		limit = n
	}

	table, err := h.service.Listings(r.Context(), currency, sortKey, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}
