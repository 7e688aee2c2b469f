package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

var kl = time.FixedZone("MYT", 8*3600)

// Wednesday of ISO week 3, 2022
func fixedNow() time.Time { return time.Date(2022, 1, 19, 10, 30, 0, 0, kl) }

func newSelfTestService(t *testing.T, store *mockLedger) *SelfTestServiceImpl {
	t.Helper()
	svc := NewSelfTestService(store, SelfTestOptions{
		Location:     kl,
		StoreTimeout: time.Second,
		Now:          fixedNow,
	}, nil)
	return svc.(*SelfTestServiceImpl)
}

func roster(t *testing.T) []models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return []models.User{
		{Username: "amy", Password: "plain-pw", Name: "Amy"},
		{Username: "bo", Password: string(hash), Name: "Bo"},
		{Username: "cy", Password: "x", Name: "Cy"},
	}
}

func TestSelfTestService_Authenticate(t *testing.T) {
	store := &mockLedger{users: roster(t)}
	svc := newSelfTestService(t, store)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "amy", "plain-pw")
	require.NoError(t, err)
	assert.Equal(t, "Amy", user.Name)
	assert.Empty(t, user.Password)

	user, err = svc.Authenticate(ctx, "bo", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Bo", user.Name)

	_, err = svc.Authenticate(ctx, "bo", "wrong")
	assert.True(t, errors.Is(err, apperrors.ErrAuthenticationFailed))
	assert.Equal(t, "incorrect username & password", err.Error())

	_, err = svc.Authenticate(ctx, "nobody", "plain-pw")
	assert.True(t, errors.Is(err, apperrors.ErrAuthenticationFailed))

	assert.Equal(t, 1, store.rosterReads, "roster is cached")
}

func TestSelfTestService_RosterFailureIsNotCached(t *testing.T) {
	store := &mockLedger{users: roster(t), rosterErr: errStoreDown}
	svc := newSelfTestService(t, store)

	_, err := svc.Authenticate(context.Background(), "amy", "plain-pw")
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))

	store.rosterErr = nil
	_, err = svc.Authenticate(context.Background(), "amy", "plain-pw")
	assert.NoError(t, err)
	assert.Equal(t, 2, store.rosterReads)
}

func TestSelfTestService_Weeks(t *testing.T) {
	svc := newSelfTestService(t, &mockLedger{})
	weeks := svc.Weeks()
	assert.Equal(t, 2022, weeks.Year)
	assert.Equal(t, []int{3, 2, 1}, weeks.Active)
}

func TestSelfTestService_LogFlagsClosedWeeks(t *testing.T) {
	store := &mockLedger{entries: []*models.LogEntry{
		logEntry(2021, 52, "Amy", models.ResultNegative),
		logEntry(2022, 3, "Bo", models.ResultNegative),
		logEntry(2022, 2, "Amy", models.ResultNegative),
	}}
	svc := newSelfTestService(t, store)

	views, err := svc.Log(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, 3, views[0].Week)
	assert.False(t, views[0].Closed)
	assert.Equal(t, 2, views[1].Week)
	assert.True(t, views[1].Closed)
	assert.Equal(t, 2021, views[2].Year)
	assert.True(t, views[2].Closed)
}

func TestSelfTestService_Attendance(t *testing.T) {
	store := &mockLedger{
		users: roster(t),
		entries: []*models.LogEntry{
			logEntry(2022, 3, "Amy", models.ResultNegative, models.Mon, models.Wed),
			logEntry(2022, 2, "Bo", models.ResultPositive, models.Fri),
		},
	}
	svc := newSelfTestService(t, store)
	ctx := context.Background()

	// zero week means the latest active week
	rows, err := svc.Attendance(ctx, 0, 0, UnrollOptions{IncludeUntested: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Amy", "Amy", "Bo", "Cy"},
		[]string{rows[0].Member, rows[1].Member, rows[2].Member, rows[3].Member})
	assert.Equal(t, models.StatusUntested, rows[2].Status)

	rows, err = svc.Attendance(ctx, 2022, 2, UnrollOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusPositive, rows[0].Status)

	_, err = svc.Attendance(ctx, 2022, 54, UnrollOptions{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSelfTestService_Submit(t *testing.T) {
	store := &mockLedger{users: roster(t)}
	svc := newSelfTestService(t, store)
	ctx := context.Background()
	amy := &models.User{Username: "amy", Name: "Amy"}

	out, err := svc.Submit(ctx, amy, &models.Submission{
		Week:     3,
		TestDate: "2022-01-18",
		Days:     []models.Weekday{models.Thu, models.Tue, models.Thu},
		Remark:   "  wfh friday ",
		Result:   models.ResultNegative,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmitAccepted, out)

	require.Equal(t, 1, store.count())
	e := store.entries[0]
	assert.Equal(t, "Amy", e.Member)
	assert.Equal(t, 2022, e.Year)
	assert.Equal(t, 3, e.Week)
	assert.Equal(t, time.Date(2022, 1, 17, 0, 0, 0, 0, kl), e.WeekStart)
	assert.Equal(t, time.Date(2022, 1, 23, 0, 0, 0, 0, kl), e.WeekEnd)
	assert.Equal(t, []models.Weekday{models.Tue, models.Thu}, e.Days)
	assert.Equal(t, "wfh friday", e.Remark)
	assert.True(t, e.Timestamp.Equal(fixedNow()))

	out, err = svc.Submit(ctx, amy, &models.Submission{Week: 3, TestDate: "2022-01-19", Result: models.ResultPositive})
	require.NoError(t, err)
	assert.Equal(t, models.SubmitSkipped, out)
	assert.Equal(t, 1, store.count())
}

func TestSelfTestService_SubmitValidation(t *testing.T) {
	svc := newSelfTestService(t, &mockLedger{})
	amy := &models.User{Username: "amy", Name: "Amy"}

	cases := []struct {
		name  string
		sub   models.Submission
		field string
	}{
		{name: "future week", sub: models.Submission{Week: 4, TestDate: "2022-01-18", Result: models.ResultNegative}, field: "week"},
		{name: "week out of range", sub: models.Submission{Week: 60, TestDate: "2022-01-18", Result: models.ResultNegative}, field: "week"},
		{name: "future date", sub: models.Submission{Week: 3, TestDate: "2022-01-20", Result: models.ResultNegative}, field: "test_date"},
		{name: "bad date", sub: models.Submission{Week: 3, TestDate: "18/01/2022", Result: models.ResultNegative}, field: "test_date"},
		{name: "missing result", sub: models.Submission{Week: 3, TestDate: "2022-01-18"}, field: "result"},
		{name: "weekend day", sub: models.Submission{Week: 3, TestDate: "2022-01-18", Days: []models.Weekday{"Sat"}, Result: models.ResultNegative}, field: "days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := tc.sub
			_, err := svc.Submit(context.Background(), amy, &sub)
			var ve *apperrors.ErrValidation
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	_, err := svc.Submit(context.Background(), nil, &models.Submission{Week: 3, TestDate: "2022-01-18", Result: models.ResultNegative})
	assert.True(t, errors.Is(err, apperrors.ErrAuthenticationFailed))
}

func TestSelfTestService_YearBoundary(t *testing.T) {
	amy := &models.User{Username: "amy", Name: "Amy"}
	newAt := func(now time.Time) (*SelfTestServiceImpl, *mockLedger) {
		store := &mockLedger{users: roster(t)}
		svc := NewSelfTestService(store, SelfTestOptions{
			Location: kl,
			Now:      func() time.Time { return now },
		}, nil)
		return svc.(*SelfTestServiceImpl), store
	}

	t.Run("new year's day still in week 53", func(t *testing.T) {
		svc, store := newAt(time.Date(2027, 1, 1, 9, 0, 0, 0, kl))
		weeks := svc.Weeks()
		assert.Equal(t, 2026, weeks.Year)
		require.Len(t, weeks.Active, 53)
		assert.Equal(t, 53, weeks.Active[0])

		out, err := svc.Submit(context.Background(), amy, &models.Submission{
			Week: 53, TestDate: "2027-01-01", Result: models.ResultNegative,
		})
		require.NoError(t, err)
		assert.Equal(t, models.SubmitAccepted, out)
		e := store.entries[0]
		assert.Equal(t, 2026, e.Year)
		assert.Equal(t, time.Date(2026, 12, 28, 0, 0, 0, 0, kl), e.WeekStart)

		rows, err := svc.Attendance(context.Background(), 0, 0, UnrollOptions{IncludeUntested: true})
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, 53, rows[0].Week)
	})

	t.Run("late december already in week 1", func(t *testing.T) {
		svc, _ := newAt(time.Date(2025, 12, 30, 9, 0, 0, 0, kl))
		weeks := svc.Weeks()
		assert.Equal(t, 2026, weeks.Year)
		assert.Equal(t, []int{1}, weeks.Active)
	})

	t.Run("configured future year has no open weeks", func(t *testing.T) {
		store := &mockLedger{users: roster(t)}
		svc := NewSelfTestService(store, SelfTestOptions{
			Year:     2027,
			Location: kl,
			Now:      func() time.Time { return time.Date(2027, 1, 1, 9, 0, 0, 0, kl) },
		}, nil)
		assert.Empty(t, svc.Weeks().Active)

		_, err := svc.Submit(context.Background(), amy, &models.Submission{
			Week: 40, TestDate: "2027-01-01", Result: models.ResultNegative,
		})
		var ve *apperrors.ErrValidation
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Equal(t, "week", ve.Field)
		assert.Equal(t, 0, store.count())
	})
}

func TestSelfTestService_SubmitStoreFailure(t *testing.T) {
	svc := newSelfTestService(t, &mockLedger{readErr: errStoreDown})
	_, err := svc.Submit(context.Background(), &models.User{Name: "Amy"}, &models.Submission{
		Week: 3, TestDate: "2022-01-18", Result: models.ResultNegative,
	})
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}
