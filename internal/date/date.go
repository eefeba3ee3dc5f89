// Package date handles the YYYY-MM-DD due dates entered in the task form.
// Due dates are stored as typed; this package only interprets them.
package date

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the accepted due date form.
const Layout = "2006-01-02"

// Date is a calendar day in UTC.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar day of t in t's own location.
func Of(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Parse reads a due date. Surrounding whitespace is ignored.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// Overdue reports whether due names a day before now's day. Empty or
// unparseable values are never overdue.
func Overdue(due string, now time.Time) bool {
	d, err := Parse(due)
	if err != nil {
		return false
	}
	return d.Before(Of(now).Time)
}

func (d Date) String() string {
	return d.Format(Layout)
}
