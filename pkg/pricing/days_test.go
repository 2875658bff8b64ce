package pricing

import (
	"testing"
	"time"

	"github.com/sangkips/stayledger-api/pkg/timeutil"
)

func mustInstant(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := timeutil.ParseInstant(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestChargeableDays(t *testing.T) {
	cases := []struct {
		name    string
		in, out string
		want    int
		wantOK  bool
	}{
		{"exactly 24 hours", "2024-01-01", "2024-01-02", 1, true},
		{"25 hours", "2024-01-01T10:00", "2024-01-02T11:00", 2, true},
		{"one hour", "2024-01-01T10:00", "2024-01-01T11:00", 1, true},
		{"ten minutes", "2024-01-01T10:00", "2024-01-01T10:10", 1, true},
		{"23 hours", "2024-01-01T10:00", "2024-01-02T09:00", 1, true},
		{"48 hours", "2024-01-01T10:00", "2024-01-03T10:00", 2, true},
		{"same instant", "2024-01-01T10:00", "2024-01-01T10:00", 0, false},
		{"checkout before checkin", "2024-01-02", "2024-01-01", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ChargeableDays(mustInstant(t, tc.in), mustInstant(t, tc.out))
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("ChargeableDays(%s, %s) = (%d, %v), want (%d, %v)", tc.in, tc.out, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestChargeableDaysMissingEndpoint(t *testing.T) {
	if _, ok := ChargeableDays(time.Time{}, time.Now()); ok {
		t.Fatal("expected empty result for a missing check-in")
	}
	if _, ok := ChargeableDays(time.Now(), time.Time{}); ok {
		t.Fatal("expected empty result for a missing check-out")
	}
}

func TestStayIntervalIgnoresTimeOfDay(t *testing.T) {
	stay := StayInterval{
		CheckInDate:  "2024-01-01",
		CheckInTime:  "10:00",
		CheckOutDate: "2024-01-02",
		CheckOutTime: "11:00",
	}
	days, ok := stay.ChargeableDays()
	if !ok || days != 1 {
		t.Fatalf("days = (%d, %v), want (1, true)", days, ok)
	}

	span, err := stay.Instants()
	if err != nil {
		t.Fatalf("instants: %v", err)
	}
	if got := span.End.Sub(span.Start); got != 25*time.Hour {
		t.Fatalf("instant span = %v, want 25h", got)
	}
}

func TestStayIntervalUndefined(t *testing.T) {
	for _, stay := range []StayInterval{
		{},
		{CheckInDate: "2024-01-01"},
		{CheckInDate: "not-a-date", CheckOutDate: "2024-01-02"},
		{CheckInDate: "2024-01-05", CheckOutDate: "2024-01-05"},
		{CheckInDate: "2024-01-05", CheckOutDate: "2024-01-04"},
	} {
		if days, ok := stay.ChargeableDays(); ok {
			t.Errorf("%+v: got %d days, want empty", stay, days)
		}
	}
}

func TestIntervalOverlaps(t *testing.T) {
	d := func(s string) time.Time { return mustInstant(t, s) }
	existing := Interval{Start: d("2024-02-01"), End: d("2024-02-05")}

	if !existing.Overlaps(Interval{Start: d("2024-02-04"), End: d("2024-02-06")}) {
		t.Error("expected overlap for 02-04..02-06")
	}
	if existing.Overlaps(Interval{Start: d("2024-02-05"), End: d("2024-02-06")}) {
		t.Error("adjacent stay must not overlap")
	}
	if existing.Overlaps(Interval{Start: d("2024-01-30"), End: d("2024-02-01")}) {
		t.Error("stay ending on check-in day must not overlap")
	}
	if !existing.Overlaps(Interval{Start: d("2024-01-30"), End: d("2024-02-10")}) {
		t.Error("enclosing stay must overlap")
	}
}
