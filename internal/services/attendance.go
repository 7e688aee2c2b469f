package services

import "github.com/tropicaldog17/dashboards/internal/models"

type UnrollOptions struct {
	// IncludeUntested adds one row with an empty day for every roster member
	// who has no entry in the week.
	IncludeUntested bool
}

// UnrollAttendance expands the week's entries into one row per declared office
// day and joins them onto the roster. Output follows roster order, then entry
// order, then day order. Entries for members missing from the roster are dropped,
// as are blank days.
func UnrollAttendance(entries []*models.LogEntry, roster []string, year, week int, opts UnrollOptions) []models.AttendanceRow {
	byMember := make(map[string][]*models.LogEntry)
	for _, e := range entries {
		if e.Year != year || e.Week != week {
			continue
		}
		byMember[e.Member] = append(byMember[e.Member], e)
	}

	rows := make([]models.AttendanceRow, 0)
	for _, member := range roster {
		logged := byMember[member]
		if len(logged) == 0 {
			if opts.IncludeUntested {
				rows = append(rows, models.AttendanceRow{
					Year:   year,
					Week:   week,
					Member: member,
					Status: models.StatusUntested,
				})
			}
			continue
		}
		for _, e := range logged {
			result := e.Result
			for _, day := range e.Days {
				if day == "" {
					continue
				}
				rows = append(rows, models.AttendanceRow{
					Year:   e.Year,
					Week:   e.Week,
					Member: member,
					Result: &result,
					Day:    string(day),
					Status: statusOf(result),
				})
			}
		}
	}
	return rows
}

func statusOf(r models.TestResult) models.AttendanceStatus {
	switch r {
	case models.ResultPositive:
		return models.StatusPositive
	case models.ResultNegative:
		return models.StatusNegative
	}
	return models.StatusUntested
}
