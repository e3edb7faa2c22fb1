package gate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the human-readable format accepted by ParseDate.
const DateLayout = "DD.MM.YYYY"

// ErrInvalidDate is wrapped by every *DateError.
var ErrInvalidDate = errors.New("invalid date")

// DateError reports why a DD.MM.YYYY string was rejected.
type DateError struct {
	Input  string
	Reason string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("parse date %q: %s", e.Input, e.Reason)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// ParseDate parses a DD.MM.YYYY calendar date into UTC midnight.
// Components must be plain decimal integers; out-of-range days and months are
// rejected rather than rolled over into the next month.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, &DateError{Input: s, Reason: "expected " + DateLayout}
	}

	day, err := parseDateComponent(parts[0], 2)
	if err != nil {
		return time.Time{}, &DateError{Input: s, Reason: "day: " + err.Error()}
	}
	month, err := parseDateComponent(parts[1], 2)
	if err != nil {
		return time.Time{}, &DateError{Input: s, Reason: "month: " + err.Error()}
	}
	year, err := parseDateComponent(parts[2], 4)
	if err != nil {
		return time.Time{}, &DateError{Input: s, Reason: "year: " + err.Error()}
	}

	if month < 1 || month > 12 {
		return time.Time{}, &DateError{Input: s, Reason: fmt.Sprintf("month %d out of range", month)}
	}
	if year < 1 {
		return time.Time{}, &DateError{Input: s, Reason: fmt.Sprintf("year %d out of range", year)}
	}
	if maxDay := daysIn(time.Month(month), year); day < 1 || day > maxDay {
		return time.Time{}, &DateError{Input: s, Reason: fmt.Sprintf("day %d out of range", day)}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func parseDateComponent(s string, maxLen int) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	if len(s) > maxLen {
		return 0, fmt.Errorf("more than %d digits", maxLen)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-numeric %q", s)
		}
	}
	return strconv.Atoi(s)
}

// daysIn returns the number of days in month of year.
func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
