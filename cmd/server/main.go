package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"go.uber.org/zap"

	_ "github.com/tropicaldog17/dashboards/docs"
	"github.com/tropicaldog17/dashboards/internal/config"
	"github.com/tropicaldog17/dashboards/internal/db"
	"github.com/tropicaldog17/dashboards/internal/handlers"
	"github.com/tropicaldog17/dashboards/internal/logger"
	"github.com/tropicaldog17/dashboards/internal/repositories"
	"github.com/tropicaldog17/dashboards/internal/services"
)

// @title Dashboards API
// @version 1.0
// @description Crypto price table and COVID self-test tracker.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zl, err := logger.New(logger.Options{Env: cfg.App.Env, Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, health, closeLedger, err := openLedger(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open ledger", zap.String("backend", cfg.SelfTest.Backend), zap.Error(err))
	}
	defer closeLedger()

	cryptoService := services.NewCryptoService(
		services.NewCoinMarketCapListingsSource(cfg.Crypto.ListingsURL),
		cfg.Crypto.FetchTimeout,
		zl.Named("crypto"),
	)
	selfTestService := services.NewSelfTestService(ledger, services.SelfTestOptions{
		Year:         cfg.SelfTest.Year,
		Location:     cfg.Location(),
		StoreTimeout: cfg.SelfTest.LedgerTimeout,
	}, zl.Named("selftest"))
	tokenService := services.NewJWTTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	router := handlers.NewRouter(handlers.RouterDeps{
		Crypto:       cryptoService,
		SelfTest:     selfTestService,
		Tokens:       tokenService,
		DefaultLimit: cfg.Crypto.DefaultLimit,
		Logger:       zl.Named("http"),
		Health:       health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("port", cfg.App.Port), zap.String("backend", cfg.SelfTest.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openLedger connects the configured ledger backend. The SQL backends are
// migrated and, when a seed file is configured, their roster replaced.
func openLedger(ctx context.Context, cfg *config.Config, zl *zap.Logger) (repositories.LedgerRepository, func() error, func(), error) {
	if cfg.SelfTest.Backend == config.BackendSheets {
		sheetsCfg := db.NewSheetsConfig(cfg)
		srv, err := db.ConnectSheets(ctx, sheetsCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		zl.Info("Using Google Sheets ledger", zap.String("spreadsheet", sheetsCfg.URL()), zap.String("range", sheetsCfg.LogRange()))
		return repositories.NewSheetsLedgerRepository(srv, sheetsCfg, cfg.Location(), zl.Named("sheets")), nil, func() {}, nil
	}

	database, err := db.Connect(db.NewConfig(cfg))
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			zl.Warn("Failed to close database", zap.Error(err))
		}
	}

	repo := repositories.NewSQLLedgerRepository(database)
	if err := repo.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	if path := cfg.SelfTest.RosterSeedFile; path != "" {
		users, err := repositories.LoadRosterSeed(path)
		if err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		if err := repo.PutMembers(ctx, users); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		zl.Info("Roster seeded", zap.String("file", path), zap.Int("members", len(users)))
	}
	zl.Info("Database connection established", zap.String("driver", cfg.SelfTest.Backend))
	return repo, database.Health, closeDB, nil
}
