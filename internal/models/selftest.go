package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Weekday is an office day a member may declare.
type Weekday string

const (
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
)

var officeDays = []Weekday{Mon, Tue, Wed, Thu, Fri}

func OfficeDays() []Weekday {
	out := make([]Weekday, len(officeDays))
	copy(out, officeDays)
	return out
}

func (d Weekday) index() int {
	for i, o := range officeDays {
		if o == d {
			return i
		}
	}
	return -1
}

func (d Weekday) Valid() bool { return d.index() >= 0 }

// NormalizeDays returns the valid days in Mon..Fri order without duplicates.
func NormalizeDays(days []Weekday) []Weekday {
	seen := make(map[Weekday]bool, len(days))
	out := make([]Weekday, 0, len(days))
	for _, d := range days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index() < out[j].index() })
	return out
}

// ParseDays splits a ledger cell such as "Tue, Thu". Blank parts are skipped;
// unknown names are kept so the unroller sees exactly what was stored.
func ParseDays(cell string) []Weekday {
	var out []Weekday
	for _, part := range strings.Split(cell, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		out = append(out, Weekday(p))
	}
	return out
}

func JoinDays(days []Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

// TestResult is the outcome of a self test.
type TestResult string

const (
	ResultNegative TestResult = "Negative"
	ResultPositive TestResult = "Positive"
)

// ParseTestResult accepts the bare names and the kit labels used in the ledger.
func ParseTestResult(s string) (TestResult, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "negative" || v == "negative (c)":
		return ResultNegative, nil
	case v == "positive" || v == "positive (t)":
		return ResultPositive, nil
	}
	return "", fmt.Errorf("unknown test result %q", s)
}

// Label is the ledger spelling of the result.
func (r TestResult) Label() string {
	switch r {
	case ResultNegative:
		return "Negative (C)"
	case ResultPositive:
		return "Positive (T)"
	}
	return string(r)
}

func (r *TestResult) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*r = ""
		return nil
	}
	v, err := ParseTestResult(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// LogKey identifies one submission slot: a member may log once per ISO week.
type LogKey struct {
	Year   int
	Week   int
	Member string
}

// LogEntry is one self-test submission in the ledger.
type LogEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Year      int        `json:"year"`
	Week      int        `json:"week"`
	WeekStart time.Time  `json:"week_start"`
	WeekEnd   time.Time  `json:"week_end"`
	Member    string     `json:"member"`
	TestDate  time.Time  `json:"test_date"`
	Days      []Weekday  `json:"days"`
	Remark    string     `json:"remark"`
	Result    TestResult `json:"result"`
}

func (e *LogEntry) Key() LogKey {
	return LogKey{Year: e.Year, Week: e.Week, Member: e.Member}
}

// SortLog orders entries by year desc, week desc, timestamp asc.
func SortLog(entries []*LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Week != b.Week {
			return a.Week > b.Week
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}

// LogView is a ledger row as displayed; Closed rows belong to past weeks.
type LogView struct {
	LogEntry
	Closed bool `json:"closed"`
}

type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
}

// Roster is the member reference table. Names keeps the sheet order and is the
// join key against LogEntry.Member; Users is keyed by username.
type Roster struct {
	Names   []string
	Users   map[string]User
	Members []User
}

func NewRoster(users []User) *Roster {
	r := &Roster{Users: make(map[string]User, len(users))}
	for _, u := range users {
		r.Names = append(r.Names, u.Name)
		r.Users[u.Username] = u
		r.Members = append(r.Members, u)
	}
	return r
}

type WeekRow struct {
	WeekNumber int       `json:"week_number"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// WeekTable is the calendar of one year plus the weeks open for submissions,
// newest first.
type WeekTable struct {
	Year   int       `json:"year"`
	Weeks  []WeekRow `json:"weeks"`
	Active []int     `json:"active_weeks"`
}

func (t *WeekTable) Lookup(week int) (WeekRow, bool) {
	for _, w := range t.Weeks {
		if w.WeekNumber == week {
			return w, true
		}
	}
	return WeekRow{}, false
}

func (t *WeekTable) IsActive(week int) bool {
	for _, w := range t.Active {
		if w == week {
			return true
		}
	}
	return false
}

type AttendanceStatus string

const (
	StatusUntested AttendanceStatus = "Untested"
	StatusNegative AttendanceStatus = "Negative"
	StatusPositive AttendanceStatus = "Positive"
)

// AttendanceRow is a derived (member, day) cell of the weekly chart.
type AttendanceRow struct {
	Year   int              `json:"year"`
	Week   int              `json:"week"`
	Member string           `json:"member"`
	Result *TestResult      `json:"result,omitempty"`
	Day    string           `json:"day"`
	Status AttendanceStatus `json:"status"`
}

type SubmitOutcome string

const (
	SubmitAccepted SubmitOutcome = "accepted"
	SubmitSkipped  SubmitOutcome = "skipped"
)

// Submission is the self-test form payload.
type Submission struct {
	Week     int        `json:"week" validate:"required,min=1,max=53"`
	TestDate string     `json:"test_date" validate:"required,datetime=2006-01-02"`
	Days     []Weekday  `json:"days" validate:"dive,oneof=Mon Tue Wed Thu Fri"`
	Remark   string     `json:"remark" validate:"max=500"`
	Result   TestResult `json:"result" validate:"required,oneof=Negative Positive"`
}
