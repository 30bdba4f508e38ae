package enums

import "fmt"

// DateRange names the revenue chart windows supported by the stats endpoints.
type DateRange string

const (
	DateRangeThisWeek      DateRange = "this_week"
	DateRangeLastWeek      DateRange = "last_week"
	DateRangeLastSixMonths DateRange = "last_six_months"
	DateRangeThisYear      DateRange = "this_year"
	DateRangeLastYear      DateRange = "last_year"
)

var validDateRanges = []DateRange{
	DateRangeThisWeek,
	DateRangeLastWeek,
	DateRangeLastSixMonths,
	DateRangeThisYear,
	DateRangeLastYear,
}

// String implements fmt.Stringer.
func (r DateRange) String() string {
	return string(r)
}

// IsValid reports whether the value is a known DateRange.
func (r DateRange) IsValid() bool {
	for _, candidate := range validDateRanges {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsWeekly reports whether the range is bucketed by day of week.
func (r DateRange) IsWeekly() bool {
	return r == DateRangeThisWeek || r == DateRangeLastWeek
}

// ParseDateRange converts raw input into a DateRange.
func ParseDateRange(value string) (DateRange, error) {
	for _, candidate := range validDateRanges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid date range %q", value)
}
