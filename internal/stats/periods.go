package stats

import (
	"time"

	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
)

// monthWindow returns the first and last instant of the calendar month that
// lies periodsAgo months before now's month.
func monthWindow(now time.Time, periodsAgo int) (time.Time, time.Time) {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfCurrent.AddDate(0, -periodsAgo, 0)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// weekWindow returns the Sunday-first week window lying weeksAgo weeks before
// the week containing now.
func weekWindow(now time.Time, weeksAgo int) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -int(now.Weekday())-7*weeksAgo)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// yearWindow returns the calendar year window lying yearsAgo years before now.
func yearWindow(now time.Time, yearsAgo int) (time.Time, time.Time) {
	start := time.Date(now.Year()-yearsAgo, time.January, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return start, end
}

// rangeWindow maps a date range selector onto its concrete time window.
func rangeWindow(now time.Time, dateRange enums.DateRange) (time.Time, time.Time, error) {
	switch dateRange {
	case enums.DateRangeThisWeek:
		start, end := weekWindow(now, 0)
		return start, end, nil
	case enums.DateRangeLastWeek:
		start, end := weekWindow(now, 1)
		return start, end, nil
	case enums.DateRangeLastSixMonths:
		start, _ := monthWindow(now, 5)
		_, end := monthWindow(now, 0)
		return start, end, nil
	case enums.DateRangeThisYear:
		start, end := yearWindow(now, 0)
		return start, end, nil
	case enums.DateRangeLastYear:
		start, end := yearWindow(now, 1)
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid date range")
	}
}

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}
