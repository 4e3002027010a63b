package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateISO   = "2006-01-02"
	DateLocal = "02.01.2006"
	TimeOfDay = "15:04:05"
)

// ParseLogDate accepts both date layouts found in the log.
func ParseLogDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateISO, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLocal, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of t's ISO week.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return DayStart(t).AddDate(0, 0, -(wd - 1))
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
