// Package integration runs the ledger and the HTTP API against a real
// PostgreSQL started with testcontainers. These tests require Docker and are
// skipped with -short.
//
// Usage:
//
//	go test ./tests/integration/
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tropicaldog17/dashboards/internal/config"
	"github.com/tropicaldog17/dashboards/internal/db"
	"github.com/tropicaldog17/dashboards/internal/repositories"
)

// TestContainer holds the PostgreSQL container and the migrated ledger on top of it
type TestContainer struct {
	Container testcontainers.Container
	DB        *db.DB
	Ledger    *repositories.SQLLedgerRepository
	Config    *db.Config
}

// SetupTestContainer starts PostgreSQL and migrates the ledger schema into it
func SetupTestContainer(t *testing.T) *TestContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("dashboards_test"),
		postgres.WithUsername("dashboards_user"),
		postgres.WithPassword("dashboards_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	tc := &TestContainer{Container: pgContainer}
	t.Cleanup(func() { tc.Cleanup(t) })

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	tc.Config = &db.Config{
		Driver:   config.BackendPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     "dashboards_user",
		Password: "dashboards_password",
		Name:     "dashboards_test",
		SSLMode:  "disable",
	}
	tc.DB, err = db.Connect(tc.Config)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	tc.Ledger = repositories.NewSQLLedgerRepository(tc.DB)
	if err := tc.Ledger.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate ledger: %v", err)
	}
	return tc
}

// Cleanup terminates the container and closes the database connection
func (tc *TestContainer) Cleanup(t *testing.T) {
	t.Helper()

	if tc.DB != nil {
		_ = tc.DB.Close()
	}
	if tc.Container != nil {
		if err := tc.Container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}
}
