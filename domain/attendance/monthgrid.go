package attendance

import (
	"errors"
	"fmt"
	"time"
)

// DayFormat is the calendar-date layout used everywhere (day granularity).
const DayFormat = "2006-01-02"

// MonthFormat is the year-month layout accepted by DaysInMonth.
const MonthFormat = "2006-01"

// ErrInvalidDate marks a malformed or out-of-range calendar value. A failed
// parse fails only the call it was supplied to.
var ErrInvalidDate = errors.New("invalid date")

// ParseDay validates a YYYY-MM-DD string.
func ParseDay(date string) (time.Time, error) {
	t, err := time.Parse(DayFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// DaysInMonth returns every calendar date of yearMonth (YYYY-MM) in
// ascending order, using the actual month length (28-31 days).
func DaysInMonth(yearMonth string) ([]string, error) {
	t, err := time.Parse(MonthFormat, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, yearMonth)
	}

	// Day 0 of the next month is the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()

	dates := make([]string, 0, last)
	for day := 1; day <= last; day++ {
		dates = append(dates, time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, time.UTC).Format(DayFormat))
	}
	return dates, nil
}
