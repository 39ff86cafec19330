// Package membership holds the renewal-date arithmetic and payment-state
// classification for gym memberships. Everything here is pure: callers
// supply the reference date, nothing reads the clock except the
// convenience wrapper IsPaymentOverdue.
package membership

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the storage format for all calendar dates
const DateLayout = "2006-01-02"

// displayLayout is the human-readable format used in lists and emails
const displayLayout = "Jan 02, 2006"

// ErrInvalidDate is returned when a date string does not parse as YYYY-MM-DD
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a stored YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats a date for storage as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDisplayDate formats a date for display, e.g. "Feb 29, 2024".
// The underlying day is never altered.
func FormatDisplayDate(t time.Time) string {
	return t.Format(displayLayout)
}

// AddPlanPeriod returns the renewal date for a membership starting (or
// renewed) on start. Month addition clamps to the last valid day of the
// target month: 2024-01-31 plus one month is 2024-02-29, not March 2.
// The result carries the calendar date only (midnight, start's location).
func AddPlanPeriod(start time.Time, plan Plan) (time.Time, error) {
	months, err := plan.Months()
	if err != nil {
		return time.Time{}, err
	}
	return addMonthsClamped(start, months), nil
}

// addMonthsClamped adds calendar months, clamping the day-of-month when
// the target month is shorter. time.AddDate is avoided on purpose: it
// normalizes Jan 31 + 1 month into March.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// CalculateNextPaymentDate is the string boundary over AddPlanPeriod,
// taking and returning YYYY-MM-DD as persisted by the record store.
func CalculateNextPaymentDate(startDate string, plan Plan) (string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}
	next, err := AddPlanPeriod(start, plan)
	if err != nil {
		return "", err
	}
	return FormatDate(next), nil
}

// OverdueOn reports whether a due date has passed as of today. The
// comparison is date-only: a due date equal to today is not overdue.
func OverdueOn(due, today time.Time) bool {
	dy, dm, dd := due.Date()
	ty, tm, td := today.Date()
	if dy != ty {
		return dy < ty
	}
	if dm != tm {
		return dm < tm
	}
	return dd < td
}

// IsPaymentOverdue reports whether due has passed as of the current wall
// clock. Tests and batch jobs should prefer OverdueOn with an explicit
// reference date.
func IsPaymentOverdue(due time.Time) bool {
	return OverdueOn(due, time.Now())
}
