package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tropicaldog17/dashboards/internal/db"
	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

// logEntryRecord is the stored shape of a LogEntry. The unique index on
// (year, week, member) backs AppendIfAbsent.
type logEntryRecord struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Timestamp time.Time `gorm:"column:logged_at;not null"`
	Year      int       `gorm:"not null;uniqueIndex:idx_log_entries_key,priority:1"`
	Week      int       `gorm:"not null;uniqueIndex:idx_log_entries_key,priority:2"`
	Member    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_log_entries_key,priority:3"`
	WeekStart time.Time
	WeekEnd   time.Time
	TestDate  time.Time
	Days      string `gorm:"type:varchar(64)"`
	Remark    string `gorm:"type:text"`
	Result    string `gorm:"type:varchar(32);not null"`
}

func (logEntryRecord) TableName() string { return "log_entries" }

type memberRecord struct {
	Username  string `gorm:"type:varchar(255);primaryKey"`
	Password  string `gorm:"type:varchar(255);not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

func (memberRecord) TableName() string { return "members" }

type SQLLedgerRepository struct {
	db *db.DB
}

// NewSQLLedgerRepository returns a gorm-backed ledger. Call Migrate once before use.
func NewSQLLedgerRepository(database *db.DB) *SQLLedgerRepository {
	return &SQLLedgerRepository{db: database}
}

// Migrate creates or updates the ledger tables.
func (r *SQLLedgerRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&logEntryRecord{}, &memberRecord{}); err != nil {
		return fmt.Errorf("failed to migrate ledger tables: %w", err)
	}
	return nil
}

func (r *SQLLedgerRepository) ReadLog(ctx context.Context) ([]*models.LogEntry, error) {
	var records []logEntryRecord
	err := r.db.WithContext(ctx).
		Order("year DESC").Order("week DESC").Order("logged_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: read log: %w", apperrors.ErrStoreUnavailable, err)
	}

	entries := make([]*models.LogEntry, 0, len(records))
	for i := range records {
		e, err := records[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: log entry %s: %w", apperrors.ErrStoreUnavailable, records[i].ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *SQLLedgerRepository) ReadRoster(ctx context.Context) (*models.Roster, error) {
	var records []memberRecord
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Order("username ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: read roster: %w", apperrors.ErrStoreUnavailable, err)
	}
	users := make([]models.User, 0, len(records))
	for _, m := range records {
		users = append(users, models.User{Username: m.Username, Password: m.Password, Name: m.Name})
	}
	return models.NewRoster(users), nil
}

func (r *SQLLedgerRepository) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	if err := r.db.WithContext(ctx).Create(newLogEntryRecord(entry)).Error; err != nil {
		return fmt.Errorf("%w: append log: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *SQLLedgerRepository) AppendIfAbsent(ctx context.Context, entry *models.LogEntry) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year"}, {Name: "week"}, {Name: "member"}},
			DoNothing: true,
		}).
		Create(newLogEntryRecord(entry))
	if res.Error != nil {
		return false, fmt.Errorf("%w: append log: %w", apperrors.ErrStoreUnavailable, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// PutMembers replaces the member table, keeping the given order.
func (r *SQLLedgerRepository) PutMembers(ctx context.Context, users []models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&memberRecord{}).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}
		records := make([]memberRecord, len(users))
		for i, u := range users {
			records[i] = memberRecord{Username: u.Username, Password: u.Password, Name: u.Name, SortOrder: i}
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("%w: put members: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func newLogEntryRecord(e *models.LogEntry) *logEntryRecord {
	return &logEntryRecord{
		ID:        uuid.NewString(),
		Timestamp: e.Timestamp,
		Year:      e.Year,
		Week:      e.Week,
		Member:    e.Member,
		WeekStart: e.WeekStart,
		WeekEnd:   e.WeekEnd,
		TestDate:  e.TestDate,
		Days:      models.JoinDays(e.Days),
		Remark:    e.Remark,
		Result:    e.Result.Label(),
	}
}

func (r *logEntryRecord) toModel() (*models.LogEntry, error) {
	result, err := models.ParseTestResult(r.Result)
	if err != nil {
		return nil, err
	}
	return &models.LogEntry{
		Timestamp: r.Timestamp,
		Year:      r.Year,
		Week:      r.Week,
		WeekStart: r.WeekStart,
		WeekEnd:   r.WeekEnd,
		Member:    r.Member,
		TestDate:  r.TestDate,
		Days:      models.ParseDays(r.Days),
		Remark:    r.Remark,
		Result:    result,
	}, nil
}
