package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/tropicaldog17/dashboards/internal/services"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Crypto       services.CryptoService
	SelfTest     services.SelfTestService
	Tokens       services.TokenService
	DefaultLimit int
	Logger       *zap.Logger
	// Health reports backing store health; nil means always healthy.
	Health func() error
}

// NewRouter registers the API routes and wraps them in the request logging and
// CORS middleware.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cryptoHandler := NewCryptoHandler(deps.Crypto, deps.DefaultLimit, logger)
	selfTestHandler := NewSelfTestHandler(deps.SelfTest, deps.Tokens, logger)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler(deps.Health)).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/crypto/listings", cryptoHandler.HandleListings).Methods(http.MethodGet)
	api.HandleFunc("/selftest/login", selfTestHandler.HandleLogin).Methods(http.MethodPost)

	members := api.PathPrefix("/selftest").Subrouter()
	members.Use(requireMember(deps.Tokens, logger))
	members.HandleFunc("/weeks", selfTestHandler.HandleWeeks).Methods(http.MethodGet)
	members.HandleFunc("/log", selfTestHandler.HandleLog).Methods(http.MethodGet)
	members.HandleFunc("/attendance", selfTestHandler.HandleAttendance).Methods(http.MethodGet)
	members.HandleFunc("/submissions", selfTestHandler.HandleSubmit).Methods(http.MethodPost)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return corsMiddleware(requestLogger(logger)(router))
}

// healthHandler handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":  "unhealthy",
					"service": "dashboards",
					"error":   err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "dashboards",
		})
	}
}
