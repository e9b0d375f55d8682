package utils

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// HumanizeDuration formats seconds to a human-friendly string.
func HumanizeDuration(s int) string {
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dm", s/60)
	case s < 86400:
		return fmt.Sprintf("%dh", s/3600)
	case s < 604800:
		return fmt.Sprintf("%dd", s/86400)
	default:
		return fmt.Sprintf("%dw", s/604800)
	}
}

// DaysBetween returns the number of whole days from start to end, rounded down.
// A negative span yields zero.
func DaysBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// LongDate formats t the way the reports print row dates, e.g. "March 04, 2025".
func LongDate(t time.Time) string {
	return t.Format("January 02, 2006")
}

// ReportDate formats t the way report headings print it, e.g. "04 March 2025".
func ReportDate(t time.Time) string {
	return t.Format("02 January 2006")
}
