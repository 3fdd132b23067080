package settlement

import (
	"fmt"
	"strconv"
	"time"
)

// MonthKey builds the MMYYYY composite key used by the closure store,
// e.g. March 2025 -> "032025".
func MonthKey(year, month int) (string, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return "", ErrInvalidPeriod
	}
	return fmt.Sprintf("%02d%04d", month, year), nil
}

// ParseMonthKey is the inverse of MonthKey.
func ParseMonthKey(key string) (year, month int, err error) {
	if len(key) != 6 {
		return 0, 0, ErrInvalidPeriod
	}
	month, err = strconv.Atoi(key[:2])
	if err != nil {
		return 0, 0, ErrInvalidPeriod
	}
	year, err = strconv.Atoi(key[2:])
	if err != nil {
		return 0, 0, ErrInvalidPeriod
	}
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return 0, 0, ErrInvalidPeriod
	}
	return year, month, nil
}

// MonthRange returns the [from, to) bounds of a calendar month in loc.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
