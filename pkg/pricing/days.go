// Package pricing holds the reservation pricing and date-derivation rules:
// chargeable days, per-day tariffs for the company and host ledgers, GST
// aggregation and room-availability conflict evaluation. Every function here
// is pure; callers recompute on each edit.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/sangkips/stayledger-api/pkg/timeutil"
)

const hoursPerDay = 24

// ChargeableDays returns the billable day count between two instants. Whole
// hours are rounded up to days, so 24h is one day and 25h is two. ok is false
// when either instant is missing or checkOut is not after checkIn.
func ChargeableDays(checkIn, checkOut time.Time) (int, bool) {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		return 0, false
	}
	hours := math.Ceil(checkOut.Sub(checkIn).Hours())
	return int(math.Ceil(hours / hoursPerDay)), true
}

// StayInterval is the check-in/check-out pair as entered on a reservation form.
type StayInterval struct {
	CheckInDate  string `json:"check_in_date"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutDate string `json:"check_out_date"`
	CheckOutTime string `json:"check_out_time,omitempty"`
}

// Interval is a half-open [Start, End) span.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two intervals intersect. Touching intervals
// (one ends when the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Dates parses both calendar dates of the stay.
func (s StayInterval) Dates() (Interval, error) {
	in, err := timeutil.ParseDate(s.CheckInDate)
	if err != nil {
		return Interval{}, errors.New("check-in date: " + err.Error())
	}
	out, err := timeutil.ParseDate(s.CheckOutDate)
	if err != nil {
		return Interval{}, errors.New("check-out date: " + err.Error())
	}
	return Interval{Start: in, End: out}, nil
}

// Instants combines dates and wall-clock times. A blank time means midnight.
func (s StayInterval) Instants() (Interval, error) {
	dates, err := s.Dates()
	if err != nil {
		return Interval{}, err
	}
	in, err := clockOrMidnight(s.CheckInTime)
	if err != nil {
		return Interval{}, errors.New("check-in time: " + err.Error())
	}
	out, err := clockOrMidnight(s.CheckOutTime)
	if err != nil {
		return Interval{}, errors.New("check-out time: " + err.Error())
	}
	return Interval{
		Start: timeutil.Combine(dates.Start, in),
		End:   timeutil.Combine(dates.End, out),
	}, nil
}

// ChargeableDays derives the day count from the calendar dates only; the
// time-of-day fields do not affect it.
func (s StayInterval) ChargeableDays() (int, bool) {
	dates, err := s.Dates()
	if err != nil {
		return 0, false
	}
	return ChargeableDays(dates.Start, dates.End)
}

func clockOrMidnight(value string) (time.Duration, error) {
	d, err := timeutil.ParseClock(value)
	if errors.Is(err, timeutil.ErrEmptyValue) {
		return 0, nil
	}
	return d, err
}
