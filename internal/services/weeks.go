package services

import (
	"sort"
	"time"

	"github.com/tropicaldog17/dashboards/internal/models"
)

// BuildWeekTable lists the Monday-to-Sunday ISO weeks of year (52 or 53 rows).
// Week 1 is the week holding January 4th, so its Monday may fall in December of
// the previous year. Active holds the weeks that have begun by now, newest
// first: all of them for a past ISO year, none for a future one.
func BuildWeekTable(year int, now time.Time) *models.WeekTable {
	loc := now.Location()
	d := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(d.Weekday()) + 6) % 7 // days since Monday
	d = d.AddDate(0, 0, -offset)

	table := &models.WeekTable{Year: year, Weeks: make([]models.WeekRow, 0, 53)}
	for ; ; d = d.AddDate(0, 0, 7) {
		isoYear, isoWeek := d.ISOWeek()
		if isoYear != year {
			break
		}
		table.Weeks = append(table.Weeks, models.WeekRow{
			WeekNumber: isoWeek,
			StartDate:  d,
			EndDate:    d.AddDate(0, 0, 6),
		})
	}

	nowYear, current := now.ISOWeek()
	switch {
	case year < nowYear:
		current = len(table.Weeks)
	case year > nowYear:
		current = 0
	}
	table.Active = make([]int, 0, len(table.Weeks))
	for _, w := range table.Weeks {
		if w.WeekNumber <= current {
			table.Active = append(table.Active, w.WeekNumber)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(table.Active)))
	return table
}
