// Package dates holds the pure calendar math for a fixed board year.
// All keys are ISO "YYYY-MM-DD" strings, which compare chronologically
// under plain string comparison.
package dates

import (
	"fmt"
	"time"
)

const keyLayout = "2006-01-02"

// DaysInMonth returns the number of days in month (1-12) of year,
// accounting for leap years.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	// Day 0 of the next month is the last day of this one.
	t := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

// IsValidDay reports whether (month, day) names a real calendar day in year.
func IsValidDay(month, day, year int) bool {
	return day >= 1 && day <= DaysInMonth(month, year)
}

// Key builds the ISO date key for (month, day) in year. The caller is
// expected to pass a valid day; invalid input still formats but will not
// round-trip through Parse.
func Key(month, day, year int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Parse splits an ISO date key into its year, month and day components.
func Parse(key string) (year, month, day int, err error) {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse date %q: %w", key, err)
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}

// IsValidKey reports whether key is a well-formed ISO date.
func IsValidKey(key string) bool {
	_, _, _, err := Parse(key)
	return err == nil
}

// InYear reports whether key is a valid date inside year.
func InYear(key string, year int) bool {
	y, _, _, err := Parse(key)
	return err == nil && y == year
}

// InRange reports whether date lies in [start, end]. ISO keys compare
// chronologically as strings, so no time parsing is needed.
func InRange(date, start, end string) bool {
	if start > end {
		start, end = end, start
	}
	return date >= start && date <= end
}

// Ordered returns (a, b) sorted ascending.
func Ordered(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
