package domain

import (
	"fmt"
	"time"
)

// Date is a calendar date as seen by documents. It carries no time of
// day: the engine only exposes day resolution.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateFromTime extracts the calendar date of the given instant. The
// second return value is false if the instant does not map onto a
// representable date.
func DateFromTime(t time.Time) (Date, bool) {
	year, month, day := t.Date()
	if year < 0 || year > 9999 {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
