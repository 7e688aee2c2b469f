package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/tropicaldog17/dashboards/internal/db"
	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

// Ledger tab header names. Columns are positional in the sheet; the header row
// tells which position holds which field.
const (
	colLogDatetime = "Log Datetime"
	colYear        = "Year"
	colWeek        = "Week"
	colStartDate   = "Start Date"
	colEndDate     = "End Date"
	colMember      = "Member"
	colTestDate    = "Test Date"
	colDays        = "Days"
	colRemark      = "Remark"
	colResult      = "Result"

	colUsername = "Username"
	colPassword = "Password"
	colName     = "Name"

	sheetDateTimeLayout = "2006-01-02 15:04"
	sheetDateLayout     = "2006-01-02"
)

// sheetsLedgerRepository keeps the ledger in a Google spreadsheet. It cannot
// append conditionally, so it does not implement ConditionalAppender.
type sheetsLedgerRepository struct {
	values *sheets.SpreadsheetsValuesService
	cfg    *db.SheetsConfig
	loc    *time.Location
	logger *zap.Logger
}

// NewSheetsLedgerRepository wraps an existing Sheets handle. Timestamps without a
// zone are read in loc.
func NewSheetsLedgerRepository(srv *sheets.Service, cfg *db.SheetsConfig, loc *time.Location, logger *zap.Logger) LedgerRepository {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sheetsLedgerRepository{values: srv.Spreadsheets.Values, cfg: cfg, loc: loc, logger: logger}
}

func (r *sheetsLedgerRepository) ReadLog(ctx context.Context) ([]*models.LogEntry, error) {
	header, rows, err := r.readTable(ctx, r.cfg.LogRange())
	if err != nil {
		return nil, fmt.Errorf("%w: read log: %w", apperrors.ErrStoreUnavailable, err)
	}

	// The sheet is edited by hand; rows that do not parse are skipped.
	entries := make([]*models.LogEntry, 0, len(rows))
	for i, row := range rows {
		e, err := r.parseLogRow(header, row)
		if err != nil {
			// +2: one for the header row, one for 1-based sheet rows
			r.logger.Warn("skipping unreadable log row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	models.SortLog(entries)
	return entries, nil
}

func (r *sheetsLedgerRepository) ReadRoster(ctx context.Context) (*models.Roster, error) {
	header, rows, err := r.readTable(ctx, r.cfg.RosterRange)
	if err != nil {
		return nil, fmt.Errorf("%w: read roster: %w", apperrors.ErrStoreUnavailable, err)
	}
	for _, col := range []string{colUsername, colPassword, colName} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%w: roster header missing %q", apperrors.ErrStoreUnavailable, col)
		}
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		u := models.User{
			Username: cell(header, row, colUsername),
			Password: cell(header, row, colPassword),
			Name:     cell(header, row, colName),
		}
		if u.Username == "" {
			continue
		}
		users = append(users, u)
	}
	return models.NewRoster(users), nil
}

func (r *sheetsLedgerRepository) AppendLog(ctx context.Context, e *models.LogEntry) error {
	row := []interface{}{
		e.Timestamp.In(r.loc).Format(sheetDateTimeLayout),
		strconv.Itoa(e.Year),
		strconv.Itoa(e.Week),
		e.WeekStart.Format(sheetDateLayout),
		e.WeekEnd.Format(sheetDateLayout),
		e.Member,
		e.TestDate.Format(sheetDateLayout),
		models.JoinDays(e.Days),
		e.Remark,
		e.Result.Label(),
	}
	_, err := r.values.Append(r.cfg.SpreadsheetID, r.cfg.LogRange(), &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append log: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// readTable fetches a range and splits off the header row.
func (r *sheetsLedgerRepository) readTable(ctx context.Context, rng string) (map[string]int, [][]interface{}, error) {
	resp, err := r.values.Get(r.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, nil, err
	}
	if len(resp.Values) == 0 {
		return map[string]int{}, nil, nil
	}

	header := make(map[string]int, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		header[strings.TrimSpace(fmt.Sprint(v))] = i
	}
	return header, resp.Values[1:], nil
}

func (r *sheetsLedgerRepository) parseLogRow(header map[string]int, row []interface{}) (*models.LogEntry, error) {
	ts, err := parseSheetTime(cell(header, row, colLogDatetime), r.loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", colLogDatetime, err)
	}
	year, err := strconv.Atoi(cell(header, row, colYear))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", colYear, err)
	}
	week, err := strconv.Atoi(cell(header, row, colWeek))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", colWeek, err)
	}
	result, err := models.ParseTestResult(cell(header, row, colResult))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", colResult, err)
	}

	return &models.LogEntry{
		Timestamp: ts,
		Year:      year,
		Week:      week,
		WeekStart: parseSheetDate(cell(header, row, colStartDate), r.loc),
		WeekEnd:   parseSheetDate(cell(header, row, colEndDate), r.loc),
		Member:    cell(header, row, colMember),
		TestDate:  parseSheetDate(cell(header, row, colTestDate), r.loc),
		Days:      models.ParseDays(cell(header, row, colDays)),
		Remark:    cell(header, row, colRemark),
		Result:    result,
	}, nil
}

// cell returns the trimmed string at the named column; trailing empty cells are
// omitted by the API, so short rows read as blank.
func cell(header map[string]int, row []interface{}, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseSheetTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{sheetDateTimeLayout, "2006-01-02 15:04:05", sheetDateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, s)
}

// parseSheetDate is lenient: informational date columns read as zero when blank
// or malformed.
func parseSheetDate(s string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(sheetDateLayout, s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
