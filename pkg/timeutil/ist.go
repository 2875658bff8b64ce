package timeutil

import (
	"errors"
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). Stay dates and
// wall-clock check-in/check-out times are interpreted in this zone.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback when the tz database is not available in the container
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02T15:04"
	DisplayLayout  = "02 Jan 2006"
)

// ErrEmptyValue is returned when a date or time field is blank.
var ErrEmptyValue = errors.New("empty value")

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// ParseDate parses a calendar date in IST. Besides YYYY-MM-DD it accepts a
// date-time ("2006-01-02T15:04") or RFC3339 value, keeping only the date part.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}
	for _, layout := range []string{DateLayout, DateTimeLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, IST); err == nil {
			return StartOfDay(t), nil
		}
	}
	return time.Time{}, errors.New("invalid date: " + value)
}

// ParseInstant parses a full instant in IST ("2006-01-02T15:04", RFC3339 or a bare date).
func ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(IST), nil
	}
	for _, layout := range []string{DateTimeLayout, "2006-01-02T15:04:05", "2006-01-02 15:04", DateLayout} {
		if t, err := time.ParseInLocation(layout, value, IST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date-time: " + value)
}

// ParseClock parses a wall-clock time ("14:00" or "14:00:00") and returns the
// offset from midnight.
func ParseClock(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrEmptyValue
	}
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, errors.New("invalid time: " + value)
}

// Combine joins a calendar date with a wall-clock offset in IST.
func Combine(date time.Time, clock time.Duration) time.Time {
	return StartOfDay(date).Add(clock)
}

// StartOfDay returns 00:00:00 in IST for the given time
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// FormatDate formats a time as YYYY-MM-DD in IST
func FormatDate(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}
