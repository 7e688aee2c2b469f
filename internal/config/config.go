package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds the immutable settings of one server process. Load it once and
// pass it to constructors.
type Config struct {
	App struct {
		Port     string `yaml:"port"`
		Env      string `yaml:"env"`
		Timezone string `yaml:"timezone"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Crypto struct {
		ListingsURL  string        `yaml:"listings_url"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		DefaultLimit int           `yaml:"default_limit"`
	} `yaml:"crypto"`

	SelfTest struct {
		Year           int           `yaml:"year"`
		Backend        string        `yaml:"backend"`
		LedgerTimeout  time.Duration `yaml:"ledger_timeout"`
		RosterSeedFile string        `yaml:"roster_seed_file"`
	} `yaml:"selftest"`

	Sheets struct {
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		SheetName       string `yaml:"sheet_name"`
		TabRange        string `yaml:"tab_range"`
		RosterRange     string `yaml:"roster_range"`
		CredentialsFile string `yaml:"credentials_file"`
		CredentialsJSON string `yaml:"-"`
	} `yaml:"sheets"`

	Database struct {
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"-"`
		Name       string `yaml:"name"`
		SSLMode    string `yaml:"ssl_mode"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Auth struct {
		Secret   string        `yaml:"-"`
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
}

// Load reads .env (if present), then the YAML file named by DASHBOARD_CONFIG
// (if set), then lets environment variables override individual keys.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}
	cfg.SelfTest.Backend = strings.ToLower(strings.TrimSpace(cfg.SelfTest.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Port = "8080"
	cfg.App.Env = "development"
	cfg.App.Timezone = "Asia/Kuala_Lumpur"
	cfg.Log.Level = "debug"
	cfg.Crypto.ListingsURL = "https://coinmarketcap.com/"
	cfg.Crypto.FetchTimeout = 15 * time.Second
	cfg.Crypto.DefaultLimit = 50
	cfg.SelfTest.Backend = BackendSheets
	cfg.SelfTest.LedgerTimeout = 10 * time.Second
	cfg.Sheets.SheetName = "dB"
	cfg.Sheets.TabRange = "A:J"
	cfg.Sheets.RosterRange = "Members!A:C"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "dashboards"
	cfg.Database.Name = "dashboards"
	cfg.Database.SSLMode = "disable"
	cfg.Database.SQLitePath = "dashboards.db"
	cfg.Auth.TokenTTL = 12 * time.Hour
	return cfg
}

func overrideWithEnv(cfg *Config) error {
	setString(&cfg.App.Port, "SERVER_PORT")
	setString(&cfg.App.Timezone, "APP_TIMEZONE")
	setString(&cfg.App.Env, "APP_ENV")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.Crypto.ListingsURL, "CRYPTO_LISTINGS_URL")
	setString(&cfg.SelfTest.Backend, "LEDGER_BACKEND")
	setString(&cfg.SelfTest.RosterSeedFile, "ROSTER_SEED_FILE")
	setString(&cfg.Sheets.SpreadsheetID, "SPREADSHEET_ID")
	setString(&cfg.Sheets.SheetName, "SHEET_NAME")
	setString(&cfg.Sheets.TabRange, "TAB_RANGE")
	setString(&cfg.Sheets.RosterRange, "ROSTER_RANGE")
	setString(&cfg.Sheets.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&cfg.Sheets.CredentialsJSON, "GOOGLE_CREDENTIALS_JSON")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSL_MODE")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Auth.Secret, "AUTH_SECRET")

	if err := setDuration(&cfg.Crypto.FetchTimeout, "CRYPTO_FETCH_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.SelfTest.LedgerTimeout, "LEDGER_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Auth.TokenTTL, "AUTH_TOKEN_TTL"); err != nil {
		return err
	}
	if err := setInt(&cfg.Crypto.DefaultLimit, "CRYPTO_DEFAULT_LIMIT"); err != nil {
		return err
	}
	return setInt(&cfg.SelfTest.Year, "SELFTEST_YEAR")
}

// Validate checks the combinations the server cannot start without.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.App.Timezone, err)
	}
	switch c.SelfTest.Backend {
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("SPREADSHEET_ID is required for the sheets backend")
		}
	case BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown ledger backend %q", c.SelfTest.Backend)
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_SECRET is required")
	}
	if c.Crypto.FetchTimeout <= 0 || c.SelfTest.LedgerTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Crypto.DefaultLimit < 0 {
		return fmt.Errorf("default limit must not be negative")
	}
	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
