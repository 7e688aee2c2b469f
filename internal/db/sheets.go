package db

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tropicaldog17/dashboards/internal/config"
)

// SheetsConfig identifies the spreadsheet that backs the ledger.
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	TabRange        string
	RosterRange     string
	CredentialsFile string
	CredentialsJSON string
}

func NewSheetsConfig(cfg *config.Config) *SheetsConfig {
	return &SheetsConfig{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		SheetName:       cfg.Sheets.SheetName,
		TabRange:        cfg.Sheets.TabRange,
		RosterRange:     cfg.Sheets.RosterRange,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		CredentialsJSON: cfg.Sheets.CredentialsJSON,
	}
}

// LogRange is the A1 range of the ledger tab, e.g. "dB!A:J".
func (c *SheetsConfig) LogRange() string {
	return c.SheetName + "!" + c.TabRange
}

// URL is the browser link to the spreadsheet.
func (c *SheetsConfig) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + c.SpreadsheetID
}

// ConnectSheets builds the Sheets API handle from service-account credentials.
// The handle is created once by the server and shared by the ledger repository.
func ConnectSheets(ctx context.Context, cfg *SheetsConfig, extra ...option.ClientOption) (*sheets.Service, error) {
	creds := []byte(cfg.CredentialsJSON)
	if len(creds) == 0 && cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
		}
		creds = b
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if len(creds) > 0 {
		opts = append(opts, option.WithCredentialsJSON(creds))
	}
	opts = append(opts, extra...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return srv, nil
}
