package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Amount is a permissively parsed money value. JSON numbers, numeric strings
// and strings with thousands separators are accepted; anything else becomes 0.
type Amount float64

// UnmarshalJSON never fails; unparsable input is coerced to zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(ParseAmount(strings.Trim(strings.TrimSpace(string(data)), `"`)))
	return nil
}

// Float64 returns the amount as float64.
func (a Amount) Float64() float64 {
	return float64(a)
}

// ParseAmount parses s as a decimal, returning 0 when it is not a finite number.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
