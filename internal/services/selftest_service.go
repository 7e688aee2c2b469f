package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
	"github.com/tropicaldog17/dashboards/internal/repositories"
)

const testDateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// SelfTestOptions configures the self-test tracker.
type SelfTestOptions struct {
	// Year of the week table; zero follows the ISO year of the clock.
	Year     int
	Location *time.Location
	// StoreTimeout bounds every ledger call.
	StoreTimeout time.Duration
	Now          func() time.Time
}

// SelfTestServiceImpl implements SelfTestService
type SelfTestServiceImpl struct {
	store  repositories.LedgerRepository
	dedup  *Deduplicator
	opts   SelfTestOptions
	logger *zap.Logger

	mu     sync.Mutex
	roster *models.Roster
}

func NewSelfTestService(store repositories.LedgerRepository, opts SelfTestOptions, logger *zap.Logger) SelfTestService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelfTestServiceImpl{
		store:  store,
		dedup:  NewDeduplicator(store),
		opts:   opts,
		logger: logger,
	}
}

func (s *SelfTestServiceImpl) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *SelfTestServiceImpl) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

// Roster reads the member table once per process. A failed read is not
// cached, so the next call tries again.
func (s *SelfTestServiceImpl) Roster(ctx context.Context) (*models.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roster != nil {
		return s.roster, nil
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	roster, err := s.store.ReadRoster(ctx)
	if err != nil {
		return nil, err
	}
	s.roster = roster
	s.logger.Info("roster loaded", zap.Int("members", len(roster.Names)))
	return roster, nil
}

// Authenticate checks the credentials against the roster. Stored bcrypt hashes
// are verified with bcrypt; anything else is compared as plain text.
func (s *SelfTestServiceImpl) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := roster.Users[username]
	if !ok || !passwordMatches(user.Password, password) {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, apperrors.ErrAuthenticationFailed
	}
	return &models.User{Username: user.Username, Name: user.Name}, nil
}

func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func (s *SelfTestServiceImpl) year(now time.Time) int {
	if s.opts.Year != 0 {
		return s.opts.Year
	}
	year, _ := now.ISOWeek()
	return year
}

// Weeks builds the week table against the current clock so the active weeks
// advance without a restart.
func (s *SelfTestServiceImpl) Weeks() *models.WeekTable {
	now := s.now()
	return BuildWeekTable(s.year(now), now)
}

// Log returns the ledger newest week first. Entries from weeks before the
// current ISO week are flagged Closed.
func (s *SelfTestServiceImpl) Log(ctx context.Context) ([]models.LogView, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	entries, err := s.store.ReadLog(ctx)
	if err != nil {
		return nil, err
	}
	models.SortLog(entries)

	curYear, curWeek := s.now().ISOWeek()
	views := make([]models.LogView, 0, len(entries))
	for _, e := range entries {
		closed := e.Year < curYear || (e.Year == curYear && e.Week < curWeek)
		views = append(views, models.LogView{LogEntry: *e, Closed: closed})
	}
	return views, nil
}

// Attendance unrolls one week of the ledger against the roster. A zero year
// means the week table year; a zero week means the latest active week.
func (s *SelfTestServiceImpl) Attendance(ctx context.Context, year, week int, opts UnrollOptions) ([]models.AttendanceRow, error) {
	weeks := s.Weeks()
	if year == 0 {
		year = weeks.Year
	}
	if week == 0 {
		if len(weeks.Active) == 0 {
			return []models.AttendanceRow{}, nil
		}
		week = weeks.Active[0]
	}
	if week < 1 || week > 53 {
		return nil, &apperrors.ErrValidation{Field: "week", Message: "must be between 1 and 53"}
	}

	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	entries, err := s.store.ReadLog(ctx)
	if err != nil {
		return nil, err
	}
	return UnrollAttendance(entries, roster.Names, year, week, opts), nil
}

// Submit records a self test for user. A second submission for the same
// member and week is reported as SubmitSkipped, not as an error.
func (s *SelfTestServiceImpl) Submit(ctx context.Context, user *models.User, sub *models.Submission) (models.SubmitOutcome, error) {
	if user == nil || user.Name == "" {
		return "", apperrors.ErrAuthenticationFailed
	}
	if sub == nil {
		return "", &apperrors.ErrValidation{Field: "submission", Message: "is required"}
	}
	if err := validate.Struct(sub); err != nil {
		return "", translateValidation(err)
	}

	now := s.now()
	weeks := BuildWeekTable(s.year(now), now)
	if !weeks.IsActive(sub.Week) {
		return "", &apperrors.ErrValidation{Field: "week", Message: "is not open for submissions"}
	}
	row, ok := weeks.Lookup(sub.Week)
	if !ok {
		return "", &apperrors.ErrValidation{Field: "week", Message: "is not in the calendar"}
	}

	testDate, err := time.ParseInLocation(testDateLayout, sub.TestDate, s.opts.Location)
	if err != nil {
		return "", &apperrors.ErrValidation{Field: "test_date", Message: "must be a date like 2006-01-02"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.opts.Location)
	if testDate.After(today) {
		return "", &apperrors.ErrValidation{Field: "test_date", Message: "must not be in the future"}
	}

	entry := &models.LogEntry{
		Timestamp: now,
		Year:      weeks.Year,
		Week:      sub.Week,
		WeekStart: row.StartDate,
		WeekEnd:   row.EndDate,
		Member:    user.Name,
		TestDate:  testDate,
		Days:      models.NormalizeDays(sub.Days),
		Remark:    strings.TrimSpace(sub.Remark),
		Result:    sub.Result,
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	outcome, err := s.dedup.Submit(ctx, entry)
	if err != nil {
		s.logger.Error("submission failed", zap.String("member", entry.Member), zap.Int("week", entry.Week), zap.Error(err))
		return "", err
	}
	s.logger.Info("submission processed",
		zap.String("member", entry.Member),
		zap.Int("year", entry.Year),
		zap.Int("week", entry.Week),
		zap.String("outcome", string(outcome)))
	return outcome, nil
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &apperrors.ErrValidation{Field: "submission", Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min", "max":
		msg = "is out of range"
	case "oneof":
		msg = "must be one of " + fe.Param()
	case "datetime":
		msg = "must be a date like " + fe.Param()
	default:
		msg = "is invalid"
	}
	return &apperrors.ErrValidation{Field: field, Message: msg}
}
