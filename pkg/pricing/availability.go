package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
)

// ReservationSummary identifies an existing reservation that occupies a room type.
type ReservationSummary struct {
	ID            uuid.UUID `json:"id"`
	ReservationNo string    `json:"reservation_no"`
	GuestName     string    `json:"guest_name"`
	RoomType      string    `json:"room_type"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
}

// Window returns the stay span of the reservation.
func (r ReservationSummary) Window() Interval {
	return Interval{Start: r.CheckIn, End: r.CheckOut}
}

// RoomAvailability is the outcome for one requested room type.
type RoomAvailability struct {
	RoomType    string               `json:"room_type"`
	IsAvailable bool                 `json:"is_available"`
	Conflicts   []ReservationSummary `json:"conflicts"`
}

// AvailabilityQuery is a room-availability request as submitted by a form.
type AvailabilityQuery struct {
	PropertyID   string   `json:"property_id"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	RoomTypes    []string `json:"room_types"`
}

// ResolvedQuery is a validated AvailabilityQuery.
type ResolvedQuery struct {
	PropertyID uuid.UUID
	Window     Interval
	RoomTypes  []string
}

// Resolve checks the preconditions of an availability check and parses the
// query. The returned error is an *apperror.AppError listing every failed field.
func (q AvailabilityQuery) Resolve() (*ResolvedQuery, error) {
	var errs []apperror.FieldError
	var resolved ResolvedQuery

	if strings.TrimSpace(q.PropertyID) == "" {
		errs = append(errs, apperror.FieldError{Field: "property_id", Message: "Please select a property"})
	} else if id, err := uuid.Parse(strings.TrimSpace(q.PropertyID)); err != nil || id == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "property_id", Message: "Invalid property"})
	} else {
		resolved.PropertyID = id
	}

	checkIn, inErr := parseRequiredDate(q.CheckInDate, "check_in_date", "Check-in date", &errs)
	checkOut, outErr := parseRequiredDate(q.CheckOutDate, "check_out_date", "Check-out date", &errs)
	if inErr == nil && outErr == nil {
		if !checkOut.After(checkIn) {
			errs = append(errs, apperror.FieldError{Field: "check_out_date", Message: "Check-out date must be after check-in date"})
		}
		resolved.Window = Interval{Start: checkIn, End: checkOut}
	}

	resolved.RoomTypes = NormalizeRoomTypes(q.RoomTypes)
	if len(resolved.RoomTypes) == 0 {
		errs = append(errs, apperror.FieldError{Field: "room_types", Message: "Please select at least one room type"})
	}

	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return &resolved, nil
}

func parseRequiredDate(value, field, label string, errs *[]apperror.FieldError) (time.Time, error) {
	t, err := timeutil.ParseDate(value)
	if err == timeutil.ErrEmptyValue {
		*errs = append(*errs, apperror.FieldError{Field: field, Message: label + " is required"})
		return t, err
	}
	if err != nil {
		*errs = append(*errs, apperror.FieldError{Field: field, Message: label + " is not a valid date"})
	}
	return t, err
}

// NormalizeRoomTypes trims names, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling and the request order.
func NormalizeRoomTypes(roomTypes []string) []string {
	seen := make(map[string]struct{}, len(roomTypes))
	out := make([]string, 0, len(roomTypes))
	for _, rt := range roomTypes {
		rt = strings.TrimSpace(rt)
		if rt == "" {
			continue
		}
		key := strings.ToLower(rt)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rt)
	}
	return out
}

// EvaluateAvailability reports, for every requested room type, whether the
// window is free and which existing reservations overlap it.
func EvaluateAvailability(existing []ReservationSummary, window Interval, roomTypes []string) []RoomAvailability {
	types := NormalizeRoomTypes(roomTypes)
	results := make([]RoomAvailability, 0, len(types))
	for _, rt := range types {
		conflicts := []ReservationSummary{}
		for _, r := range existing {
			if !strings.EqualFold(strings.TrimSpace(r.RoomType), rt) {
				continue
			}
			if r.Window().Overlaps(window) {
				conflicts = append(conflicts, r)
			}
		}
		results = append(results, RoomAvailability{
			RoomType:    rt,
			IsAvailable: len(conflicts) == 0,
			Conflicts:   conflicts,
		})
	}
	return results
}

// AnyConflict reports whether any room type in results is unavailable.
func AnyConflict(results []RoomAvailability) bool {
	for _, r := range results {
		if !r.IsAvailable {
			return true
		}
	}
	return false
}
