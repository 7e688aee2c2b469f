package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/tropicaldog17/dashboards/internal/config"
	"github.com/tropicaldog17/dashboards/internal/db"
	"github.com/tropicaldog17/dashboards/internal/logger"
	"github.com/tropicaldog17/dashboards/internal/repositories"
)

// migrate prepares a SQL ledger: it creates the schema, optionally replaces the
// roster from a seed file and optionally copies an existing Google Sheets
// ledger into it. Database settings come from the same environment as the
// server; LEDGER_BACKEND selects postgres or sqlite.
func main() {
	seed := flag.String("seed", "", "YAML roster file to load into the members table")
	importSheets := flag.Bool("import-sheets", false, "copy the Google Sheets ledger and roster into the database")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.SelfTest.Backend == config.BackendSheets && !*importSheets {
		log.Fatal("LEDGER_BACKEND must be postgres or sqlite")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbCfg := db.NewConfig(cfg)
	if dbCfg.Driver == config.BackendSheets {
		dbCfg.Driver = config.BackendPostgres
	}
	database, err := db.Connect(dbCfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	target := repositories.NewSQLLedgerRepository(database)
	if err := target.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate ledger:", err)
	}
	log.Printf("Schema ready (%s)", dbCfg.Driver)

	if *seed != "" {
		users, err := repositories.LoadRosterSeed(*seed)
		if err != nil {
			log.Fatal(err)
		}
		if err := target.PutMembers(ctx, users); err != nil {
			log.Fatal("Failed to seed roster:", err)
		}
		log.Printf("Seeded %d members from %s", len(users), *seed)
	}

	if *importSheets {
		if err := importFromSheets(ctx, cfg, target); err != nil {
			log.Fatal("Failed to import sheets ledger:", err)
		}
	}

	log.Println("Migration completed successfully")
}

func importFromSheets(ctx context.Context, cfg *config.Config, target *repositories.SQLLedgerRepository) error {
	sheetsCfg := db.NewSheetsConfig(cfg)
	srv, err := db.ConnectSheets(ctx, sheetsCfg)
	if err != nil {
		return err
	}
	zl, err := logger.New(logger.Options{Env: cfg.App.Env, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer zl.Sync()
	source := repositories.NewSheetsLedgerRepository(srv, sheetsCfg, cfg.Location(), zl.Named("sheets"))

	copied, skipped, err := repositories.CopyLedger(ctx, source, target)
	if err != nil {
		return err
	}
	log.Printf("Imported %d entries from %s (%d already present)", copied, sheetsCfg.URL(), skipped)
	return nil
}
