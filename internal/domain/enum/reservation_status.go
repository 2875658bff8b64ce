package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus int

const (
	ReservationStatusConfirmed  ReservationStatus = 0
	ReservationStatusCheckedIn  ReservationStatus = 1
	ReservationStatusCheckedOut ReservationStatus = 2
	ReservationStatusCancelled  ReservationStatus = 3
)

var reservationStatusNames = [...]string{"Confirmed", "CheckedIn", "CheckedOut", "Cancelled"}

func (s ReservationStatus) String() string {
	if int(s) < 0 || int(s) >= len(reservationStatusNames) {
		return "Confirmed"
	}
	return reservationStatusNames[s]
}

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	return int(s) >= 0 && int(s) < len(reservationStatusNames)
}

// Blocking reports whether a reservation in this state occupies its room.
func (s ReservationStatus) Blocking() bool {
	return s != ReservationStatusCancelled
}

// ParseReservationStatus accepts the names case-insensitively, with or
// without separators ("checked_in", "Checked In").
func ParseReservationStatus(str string) (ReservationStatus, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(str)))
	for i, name := range reservationStatusNames {
		if strings.ToLower(name) == key {
			return ReservationStatus(i), nil
		}
	}
	if key == "canceled" {
		return ReservationStatusCancelled, nil
	}
	return 0, fmt.Errorf("unknown reservation status %q", str)
}

func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReservationStatus(i)
		return nil
	}
	parsed, err := ParseReservationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ReservationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReservationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReservationStatusConfirmed
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReservationStatus(v)
	case int32:
		*s = ReservationStatus(v)
	case int:
		*s = ReservationStatus(v)
	}
	return nil
}
